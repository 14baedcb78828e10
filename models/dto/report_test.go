package dto

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"

	"github.com/Xushengqwer/report_service/models/enums"
)

func validCreateReportRequest() CreateReportRequest {
	return CreateReportRequest{
		Title:              "小区门口电动车连续被盗",
		Description:        "最近一周小区北门停车棚内已有三辆电动车被盗，监控显示均为凌晨作案。",
		Category:           enums.CategoryTheft,
		CrimeType:          enums.CrimeTypePhysical,
		City:               "hangzhou",
		IncidentDate:       time.Now().Add(-24 * time.Hour),
		InitialThreatLevel: enums.VoteConcerning,
	}
}

// 枚举字段依赖 oneof 标签拦截非法值，这里直接走 Gin 的校验器验证标签生效。
func TestCreateReportRequest_Validation(t *testing.T) {
	valid := validCreateReportRequest()
	if err := binding.Validator.ValidateStruct(&valid); err != nil {
		t.Fatalf("合法请求不应校验失败: %v", err)
	}

	badCategory := validCreateReportRequest()
	badCategory.Category = enums.Category("bogus")
	if err := binding.Validator.ValidateStruct(&badCategory); err == nil {
		t.Fatal("非法案件类别应校验失败")
	}

	badLevel := validCreateReportRequest()
	badLevel.InitialThreatLevel = enums.VoteCategory("extreme")
	if err := binding.Validator.ValidateStruct(&badLevel); err == nil {
		t.Fatal("非法自评威胁档位应校验失败")
	}

	badCrimeType := validCreateReportRequest()
	badCrimeType.CrimeType = enums.CrimeType("telepathic")
	if err := binding.Validator.ValidateStruct(&badCrimeType); err == nil {
		t.Fatal("非法作案途径应校验失败")
	}
}
