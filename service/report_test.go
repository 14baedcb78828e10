package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"

	"github.com/Xushengqwer/report_service/classifier"
	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/repo/mysql"
	"gorm.io/gorm"
)

func newReportTestEnv(t *testing.T) (ReportService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logger := newTestLogger(t)

	reportRepo := mysql.NewReportRepository(db, logger)
	evidenceRepo := mysql.NewReportEvidenceRepository(db)
	// 不带证据文件的用例不会触达 COS，客户端传 nil 即可
	svc := NewReportService(db, reportRepo, evidenceRepo, nil, classifier.NewKeywordAnalyzer(), nil, logger)
	return svc, db
}

func newCreateReportRequest() *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		Title:              "收到冒充银行客服的连环诈骗短信",
		Description:        "Someone pretending to be my bank sent phishing links asking for my password and OTP, this is an online scam targeting my account.",
		Category:           enums.CategoryCyberFraud,
		CrimeType:          enums.CrimeTypeCyber,
		City:               "Shenzhen",
		Area:               "Nanshan",
		IncidentDate:       time.Now().Add(-6 * time.Hour),
		InitialThreatLevel: enums.VoteUrgent,
	}
}

func TestCreateReport_StatusTokenRoundtrip(t *testing.T) {
	svc, _ := newReportTestEnv(t)
	ctx := context.Background()

	resp, err := svc.CreateReport(ctx, newCreateReportRequest(), nil)
	if err != nil {
		t.Fatalf("创建举报失败: %v", err)
	}
	if len(resp.ReportID) != 12 {
		t.Errorf("举报ID应为 12 位, 实际 %q", resp.ReportID)
	}
	if len(resp.StatusToken) != 16 {
		t.Errorf("状态令牌应为 16 位十六进制, 实际 %q", resp.StatusToken)
	}

	status, err := svc.GetStatusByToken(ctx, resp.StatusToken)
	if err != nil {
		t.Fatalf("凭令牌查询状态失败: %v", err)
	}
	if status.ReportID != resp.ReportID {
		t.Errorf("令牌对应的举报ID不符: %s != %s", status.ReportID, resp.ReportID)
	}
	if status.Status != enums.StatusSubmitted {
		t.Errorf("新建举报状态应为 submitted, 实际 %s", status.Status)
	}
	if status.StatusMessage != enums.DefaultStatusMessage {
		t.Errorf("新建举报应返回默认状态文案, 实际 %q", status.StatusMessage)
	}

	if _, err := svc.GetStatusByToken(ctx, "deadbeefdeadbeef"); !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("无效令牌应返回 ErrRepoNotFound, 实际 %v", err)
	}
}

func TestCreateReport_DerivedFields(t *testing.T) {
	svc, db := newReportTestEnv(t)
	ctx := context.Background()

	resp, err := svc.CreateReport(ctx, newCreateReportRequest(), nil)
	if err != nil {
		t.Fatalf("创建举报失败: %v", err)
	}

	var report entities.Report
	if err := db.Where("report_id = ?", resp.ReportID).First(&report).Error; err != nil {
		t.Fatalf("重读举报失败: %v", err)
	}

	if report.EvidenceScore != 50 {
		t.Errorf("无证据材料时证据分数应为 50, 实际 %d", report.EvidenceScore)
	}
	if report.ThreatScore != 0 || report.TotalVotes != 0 {
		t.Errorf("新建举报不应有投票痕迹: threat=%d total=%d", report.ThreatScore, report.TotalVotes)
	}
	if report.ThreatLevel != enums.ThreatLow {
		t.Errorf("无投票时威胁等级应为 low, 实际 %s", report.ThreatLevel)
	}
	// 刚创建时时效分量满分: 0.2*50 + 0.3*100 = 40
	if report.VisibilityScore != 40 {
		t.Errorf("新建举报可见度分数应为 40, 实际 %d", report.VisibilityScore)
	}
	// 描述里全是网络诈骗关键词，分类器应判定线上作案并转交网络犯罪部门
	if report.DetectedCrimeType != enums.CrimeTypeCyber {
		t.Errorf("判定作案途径应为 cyber, 实际 %s", report.DetectedCrimeType)
	}
	if report.AssignedAuthority != enums.AuthorityCybercrimeUnit {
		t.Errorf("处置机构应为 cybercrime_unit, 实际 %s", report.AssignedAuthority)
	}
	if report.AnalysisConfidence < 0 || report.AnalysisConfidence > 100 {
		t.Errorf("分类置信度应在 [0,100] 内, 实际 %d", report.AnalysisConfidence)
	}
	if report.UrgencyScore < 0 || report.UrgencyScore > 100 {
		t.Errorf("紧迫度分数应在 [0,100] 内, 实际 %d", report.UrgencyScore)
	}
	if report.SpamFlag {
		t.Error("正常描述不应命中垃圾内容标记")
	}
}

func TestGetReportByID_NotFound(t *testing.T) {
	svc, _ := newReportTestEnv(t)

	if _, err := svc.GetReportByID(context.Background(), "ffffffffffff"); !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("查询不存在的举报应返回 ErrRepoNotFound, 实际 %v", err)
	}
}
