package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/myErrors"
	"github.com/Xushengqwer/report_service/repo/mysql"
)

func newVoteTestEnv(t *testing.T) (VoteService, *entities.Report, func() *entities.Report) {
	t.Helper()
	db := newTestDB(t)
	logger := newTestLogger(t)

	reportRepo := mysql.NewReportRepository(db, logger)
	voteRepo := mysql.NewThreatVoteRepository(db, logger)
	svc := NewVoteService(db, reportRepo, voteRepo, nil, logger)

	report := seedReport(t, db, "abc123def456", "0000000000000000000000000000000000000000000000000000000000000001")

	reload := func() *entities.Report {
		var fresh entities.Report
		if err := db.Where("report_id = ?", report.ReportID).First(&fresh).Error; err != nil {
			t.Fatalf("重读举报失败: %v", err)
		}
		return &fresh
	}
	return svc, report, reload
}

func TestCastVote_FirstVote(t *testing.T) {
	svc, report, reload := newVoteTestEnv(t)
	ctx := context.Background()

	result, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteUrgent)
	if err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}
	if result.AlreadyVoted {
		t.Error("首次投票不应标记为重复投票")
	}
	if result.TotalVotes != 1 {
		t.Errorf("首次投票后总票数应为 1, 实际 %d", result.TotalVotes)
	}
	if result.ThreatScore != 70 {
		t.Errorf("单票 urgent 的威胁分数应为 70, 实际 %d", result.ThreatScore)
	}
	if result.ThreatLevel != enums.ThreatUrgent {
		t.Errorf("威胁等级应为 urgent, 实际 %s", result.ThreatLevel)
	}

	fresh := reload()
	if fresh.VotesUrgent != 1 || fresh.TotalVotes != 1 {
		t.Errorf("数据库计数器不符: urgent=%d total=%d", fresh.VotesUrgent, fresh.TotalVotes)
	}
	if fresh.ThreatScore != 70 {
		t.Errorf("数据库威胁分数应为 70, 实际 %d", fresh.ThreatScore)
	}
	if fresh.VisibilityScore <= 0 || fresh.VisibilityScore > 100 {
		t.Errorf("可见度分数应在 (0,100] 内, 实际 %d", fresh.VisibilityScore)
	}
}

func TestCastVote_SameCategoryIdempotent(t *testing.T) {
	svc, report, reload := newVoteTestEnv(t)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteConcerning); err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}
	result, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteConcerning)
	if err != nil {
		t.Fatalf("重复同档位投票不应报错: %v", err)
	}
	if !result.AlreadyVoted {
		t.Error("重复同档位投票应标记 AlreadyVoted")
	}
	if result.TotalVotes != 1 {
		t.Errorf("重复投票不应改变总票数, 实际 %d", result.TotalVotes)
	}

	fresh := reload()
	if fresh.VotesConcerning != 1 || fresh.TotalVotes != 1 {
		t.Errorf("重复投票后计数器不应变化: concerning=%d total=%d", fresh.VotesConcerning, fresh.TotalVotes)
	}
}

func TestCastVote_ChangeCategory(t *testing.T) {
	svc, report, reload := newVoteTestEnv(t)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteLowRisk); err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}
	result, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteCritical)
	if err != nil {
		t.Fatalf("改票失败: %v", err)
	}
	if result.AlreadyVoted {
		t.Error("改票不应标记为重复投票")
	}
	if result.TotalVotes != 1 {
		t.Errorf("改票不应改变总票数, 实际 %d", result.TotalVotes)
	}
	if result.ThreatScore != 100 {
		t.Errorf("改为 critical 后威胁分数应为 100, 实际 %d", result.ThreatScore)
	}
	if result.VotesLowRisk != 0 || result.VotesCritical != 1 {
		t.Errorf("响应中的分档计数不符: low_risk=%d critical=%d", result.VotesLowRisk, result.VotesCritical)
	}

	fresh := reload()
	if fresh.VotesLowRisk != 0 {
		t.Errorf("旧档位计数应减为 0, 实际 %d", fresh.VotesLowRisk)
	}
	if fresh.VotesCritical != 1 {
		t.Errorf("新档位计数应为 1, 实际 %d", fresh.VotesCritical)
	}
}

func TestCastVote_CommunityFlagSticky(t *testing.T) {
	svc, report, reload := newVoteTestEnv(t)
	ctx := context.Background()

	// 5 个独立会话投 critical，威胁分数 100、票数 5，触发社区标记
	sessions := []string{"s1", "s2", "s3", "s4", "s5"}
	for _, sid := range sessions {
		if _, err := svc.CastVote(ctx, report.ReportID, sid, enums.VoteCritical); err != nil {
			t.Fatalf("会话 %s 投票失败: %v", sid, err)
		}
	}
	if fresh := reload(); !fresh.CommunityFlagged {
		t.Fatal("威胁分数与票数均过阈值后应置社区标记")
	}

	// 3 个会话改投 low_risk，威胁分数降到 (2*100+3*10)/5 = 46，低于阈值
	for _, sid := range sessions[:3] {
		if _, err := svc.CastVote(ctx, report.ReportID, sid, enums.VoteLowRisk); err != nil {
			t.Fatalf("会话 %s 改票失败: %v", sid, err)
		}
	}
	fresh := reload()
	if fresh.ThreatScore >= 70 {
		t.Fatalf("改票后威胁分数应低于阈值, 实际 %d", fresh.ThreatScore)
	}
	if !fresh.CommunityFlagged {
		t.Error("威胁分数回落后社区标记不应撤销")
	}
}

func TestCastVote_InputValidation(t *testing.T) {
	svc, report, _ := newVoteTestEnv(t)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, report.ReportID, "", enums.VoteUrgent); !errors.Is(err, myErrors.ErrMissingSession) {
		t.Errorf("缺少会话标识应返回 ErrMissingSession, 实际 %v", err)
	}
	if _, err := svc.CastVote(ctx, report.ReportID, "session-1", enums.VoteCategory("terrible")); !errors.Is(err, myErrors.ErrInvalidVoteType) {
		t.Errorf("非法投票档位应返回 ErrInvalidVoteType, 实际 %v", err)
	}
	if _, err := svc.CastVote(ctx, "nosuchreport", "session-1", enums.VoteUrgent); !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("对不存在的举报投票应返回 ErrRepoNotFound, 实际 %v", err)
	}
}

func TestGetVoteStatus(t *testing.T) {
	svc, report, _ := newVoteTestEnv(t)
	ctx := context.Background()

	// 未携带会话标识按未投票处理，不是错误
	status, err := svc.GetVoteStatus(ctx, report.ReportID, "")
	if err != nil {
		t.Fatalf("缺少会话标识不应报错: %v", err)
	}
	if status.HasVoted {
		t.Error("缺少会话标识应返回 HasVoted=false")
	}

	// 未投过票的会话
	status, err = svc.GetVoteStatus(ctx, report.ReportID, "session-status")
	if err != nil {
		t.Fatalf("查询投票状态失败: %v", err)
	}
	if status.HasVoted || status.Category != nil {
		t.Errorf("未投票的会话应返回 HasVoted=false, 实际 %+v", status)
	}

	// 投票后返回所投档位
	if _, err = svc.CastVote(ctx, report.ReportID, "session-status", enums.VoteUrgent); err != nil {
		t.Fatalf("投票失败: %v", err)
	}
	status, err = svc.GetVoteStatus(ctx, report.ReportID, "session-status")
	if err != nil {
		t.Fatalf("查询投票状态失败: %v", err)
	}
	if !status.HasVoted || status.Category == nil || *status.Category != enums.VoteUrgent {
		t.Errorf("已投票的会话应返回所投档位, 实际 %+v", status)
	}

	// 不存在的举报返回 404
	if _, err = svc.GetVoteStatus(ctx, "nosuchreport", "session-status"); !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("对不存在的举报查询投票状态应返回 ErrRepoNotFound, 实际 %v", err)
	}
}

// raceVoteRepo 模拟并发首投的竞态窗口：第一次 GetVote 查不到既有投票，
// 让上层走首投分支并撞上 (report_id, session_hash) 唯一索引。
type raceVoteRepo struct {
	mysql.ThreatVoteRepository
	missed bool
}

func (r *raceVoteRepo) GetVote(ctx context.Context, reportID string, sessionHash string) (*entities.ThreatVote, error) {
	if !r.missed {
		r.missed = true
		return nil, commonerrors.ErrRepoNotFound
	}
	return r.ThreatVoteRepository.GetVote(ctx, reportID, sessionHash)
}

func TestCastVote_DuplicateKeyRaceSameCategory(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	reportRepo := mysql.NewReportRepository(db, logger)
	voteRepo := mysql.NewThreatVoteRepository(db, logger)
	report := seedReport(t, db, "abc123def456", "0000000000000000000000000000000000000000000000000000000000000001")
	ctx := context.Background()

	// 先完成一次真实首投，制造既有台账记录
	if _, err := NewVoteService(db, reportRepo, voteRepo, nil, logger).CastVote(ctx, report.ReportID, "session-race", enums.VoteCritical); err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}

	// 竞态视角的重复请求：同档位重复提交应收敛为幂等空操作
	racing := &raceVoteRepo{ThreatVoteRepository: voteRepo}
	svc := NewVoteService(db, reportRepo, racing, nil, logger)
	result, err := svc.CastVote(ctx, report.ReportID, "session-race", enums.VoteCritical)
	if err != nil {
		t.Fatalf("并发重复投票不应报错: %v", err)
	}
	if !result.AlreadyVoted {
		t.Error("撞唯一索引后同档位应标记为重复投票")
	}

	var fresh entities.Report
	if err := db.Where("report_id = ?", report.ReportID).First(&fresh).Error; err != nil {
		t.Fatalf("重读举报失败: %v", err)
	}
	if fresh.VotesCritical != 1 || fresh.TotalVotes != 1 {
		t.Errorf("计数器应只累加一次: critical=%d total=%d", fresh.VotesCritical, fresh.TotalVotes)
	}
}

func TestCastVote_DuplicateKeyRaceDifferentCategory(t *testing.T) {
	db := newTestDB(t)
	logger := newTestLogger(t)
	reportRepo := mysql.NewReportRepository(db, logger)
	voteRepo := mysql.NewThreatVoteRepository(db, logger)
	report := seedReport(t, db, "abc123def456", "0000000000000000000000000000000000000000000000000000000000000001")
	ctx := context.Background()

	if _, err := NewVoteService(db, reportRepo, voteRepo, nil, logger).CastVote(ctx, report.ReportID, "session-race", enums.VoteCritical); err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}

	// 竞态下换档位的请求应自动按改票重试
	racing := &raceVoteRepo{ThreatVoteRepository: voteRepo}
	svc := NewVoteService(db, reportRepo, racing, nil, logger)
	result, err := svc.CastVote(ctx, report.ReportID, "session-race", enums.VoteLowRisk)
	if err != nil {
		t.Fatalf("并发改票不应报错: %v", err)
	}
	if result.AlreadyVoted {
		t.Error("换档位的并发请求不应标记为重复投票")
	}

	var fresh entities.Report
	if err := db.Where("report_id = ?", report.ReportID).First(&fresh).Error; err != nil {
		t.Fatalf("重读举报失败: %v", err)
	}
	if fresh.VotesCritical != 0 || fresh.VotesLowRisk != 1 || fresh.TotalVotes != 1 {
		t.Errorf("改票后计数器不符: critical=%d low_risk=%d total=%d", fresh.VotesCritical, fresh.VotesLowRisk, fresh.TotalVotes)
	}
}
