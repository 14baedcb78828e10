package mysql

import (
	"context"
	"fmt"
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
)

func setupRepoTest(t *testing.T) (ReportRepository, *gorm.DB) {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{
		Level:    "error",
		Encoding: "console",
	})
	if err != nil {
		t.Fatalf("初始化测试日志记录器失败: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&entities.Report{}, &entities.ThreatVote{}, &entities.ReportEvidence{}); err != nil {
		t.Fatalf("迁移测试表结构失败: %v", err)
	}
	return NewReportRepository(db, logger), db
}

// insertFeedReports 写入 n 条举报，可见度分数依次递增，便于断言排序。
func insertFeedReports(t *testing.T, db *gorm.DB, n int, city string, category enums.Category) {
	t.Helper()
	for i := 0; i < n; i++ {
		report := &entities.Report{
			ReportID:           fmt.Sprintf("%012x", i+1),
			Title:              fmt.Sprintf("测试举报编号 %d", i+1),
			Description:        "用于信息流分页测试的描述内容，长度满足提交时的下限要求。",
			Category:           category,
			CrimeType:          enums.CrimeTypePhysical,
			City:               city,
			IncidentDate:       time.Now().Add(-time.Duration(i) * time.Hour),
			InitialThreatLevel: enums.VoteLowRisk,
			EvidenceScore:      50,
			VisibilityScore:    i + 1,
			ThreatLevel:        enums.ThreatLow,
			Status:             enums.StatusSubmitted,
			StatusMessage:      enums.DefaultStatusMessage,
			StatusTokenHash:    fmt.Sprintf("%064x", i+1),
			DetectedCrimeType:  enums.CrimeTypePhysical,
			AssignedAuthority:  enums.AuthorityLocalPolice,
		}
		if err := db.Create(report).Error; err != nil {
			t.Fatalf("写入第 %d 条测试举报失败: %v", i+1, err)
		}
	}
}

func TestListFeed_Pagination(t *testing.T) {
	repo, db := setupRepoTest(t)
	insertFeedReports(t, db, 15, "Chengdu", enums.CategoryTheft)
	ctx := context.Background()

	// 第一页：可见度分数降序
	page1, total, err := repo.ListFeed(ctx, &dto.FeedQueryDTO{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询第一页失败: %v", err)
	}
	if total != 15 {
		t.Errorf("总记录数应为 15, 实际 %d", total)
	}
	if len(page1) != 10 {
		t.Fatalf("第一页应有 10 条, 实际 %d", len(page1))
	}
	for i := 1; i < len(page1); i++ {
		if page1[i].VisibilityScore > page1[i-1].VisibilityScore {
			t.Errorf("第 %d 条的可见度分数 %d 高于前一条 %d, 排序错误",
				i, page1[i].VisibilityScore, page1[i-1].VisibilityScore)
		}
	}
	if page1[0].VisibilityScore != 15 {
		t.Errorf("第一条应是可见度最高的记录 (15), 实际 %d", page1[0].VisibilityScore)
	}

	// 第二页：剩余 5 条
	page2, total, err := repo.ListFeed(ctx, &dto.FeedQueryDTO{Offset: 10, Limit: 10})
	if err != nil {
		t.Fatalf("查询第二页失败: %v", err)
	}
	if total != 15 {
		t.Errorf("第二页返回的总记录数应为 15, 实际 %d", total)
	}
	if len(page2) != 5 {
		t.Errorf("第二页应有 5 条, 实际 %d", len(page2))
	}
}

func TestListFeed_Filters(t *testing.T) {
	repo, db := setupRepoTest(t)
	insertFeedReports(t, db, 3, "Chengdu", enums.CategoryTheft)
	ctx := context.Background()

	// 追加一条不同城市与类别的记录
	other := &entities.Report{
		ReportID:           "f00000000001",
		Title:              "测试举报不同城市",
		Description:        "用于筛选条件测试的描述内容，长度满足提交时的下限要求。",
		Category:           enums.CategoryHarassment,
		CrimeType:          enums.CrimeTypeCyber,
		City:               "Beijing",
		IncidentDate:       time.Now(),
		InitialThreatLevel: enums.VoteConcerning,
		EvidenceScore:      50,
		VisibilityScore:    99,
		ThreatLevel:        enums.ThreatLow,
		Status:             enums.StatusSubmitted,
		StatusMessage:      enums.DefaultStatusMessage,
		StatusTokenHash:    fmt.Sprintf("%064x", 9999),
		DetectedCrimeType:  enums.CrimeTypeCyber,
		AssignedAuthority:  enums.AuthorityCybercrimeUnit,
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("写入筛选测试记录失败: %v", err)
	}

	// 类别筛选
	category := enums.CategoryHarassment
	list, total, err := repo.ListFeed(ctx, &dto.FeedQueryDTO{Category: &category, Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("按类别筛选失败: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ReportID != "f00000000001" {
		t.Errorf("类别筛选结果不符: total=%d len=%d", total, len(list))
	}

	// 城市筛选不区分大小写
	city := "chengdu"
	list, total, err = repo.ListFeed(ctx, &dto.FeedQueryDTO{City: &city, Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("按城市筛选失败: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Errorf("城市筛选应不区分大小写匹配 3 条: total=%d len=%d", total, len(list))
	}
}
