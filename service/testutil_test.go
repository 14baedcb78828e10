package service

import (
	"fmt"
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/report_service/models/entities"
	"github.com/Xushengqwer/report_service/models/enums"
)

// newTestLogger 创建一个只输出 error 级别的测试日志记录器。
func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{
		Level:    "error",
		Encoding: "console",
	})
	if err != nil {
		t.Fatalf("初始化测试日志记录器失败: %v", err)
	}
	return logger
}

// newTestDB 基于内存 SQLite 创建一个隔离的测试数据库。
// TranslateError 与生产连接保持一致，唯一索引冲突才能翻译为 gorm.ErrDuplicatedKey。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// seedReport 直接落库一条最小可用的举报记录，绕过服务层的创建流程。
func seedReport(t *testing.T, db *gorm.DB, reportID string, tokenHash string) *entities.Report {
	t.Helper()
	report := &entities.Report{
		ReportID:           reportID,
		Title:              "深夜在停车场被人持续尾随",
		Description:        "连续三天下班回家的路上注意到同一名陌生男子跟在身后，今天他一路跟到了小区停车场。",
		Category:           enums.CategoryStalking,
		CrimeType:          enums.CrimeTypePhysical,
		City:               "Hangzhou",
		IncidentDate:       time.Now().Add(-24 * time.Hour),
		InitialThreatLevel: enums.VoteConcerning,
		EvidenceScore:      50,
		ThreatLevel:        enums.ThreatLow,
		Status:             enums.StatusSubmitted,
		StatusMessage:      enums.DefaultStatusMessage,
		StatusTokenHash:    tokenHash,
		DetectedCrimeType:  enums.CrimeTypePhysical,
		AssignedAuthority:  enums.AuthorityLocalPolice,
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("写入测试举报失败: %v", err)
	}
	return report
}
