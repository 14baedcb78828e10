package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/models/dto"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/service"
)

// Seed 通过服务层批量生成测试举报，并为每条举报附带若干匿名投票，
// 以便本地联调时信息流与热门榜单有可观察的数据。
func Seed(ctx context.Context, reportSvc service.ReportService, voteSvc service.VoteService, logger *core.ZapLogger, numReports int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numReports))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numReports; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			category := enums.AllCategories[gofakeit.Number(0, len(enums.AllCategories)-1)]
			crimeType := enums.CrimeTypePhysical
			if gofakeit.Bool() {
				crimeType = enums.CrimeTypeCyber
			}
			initialLevel := enums.AllVoteCategories[gofakeit.Number(0, len(enums.AllVoteCategories)-1)]

			createReq := &dto.CreateReportRequest{
				Title:              gofakeit.Sentence(gofakeit.Number(5, 15)),
				Description:        gofakeit.Paragraph(2, 4, 20, " "),
				Category:           category,
				CrimeType:          crimeType,
				City:               gofakeit.City(),
				Area:               gofakeit.Street(),
				IncidentDate:       gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
				InitialThreatLevel: initialLevel,
			}

			resp, err := reportSvc.CreateReport(ctx, createReq, nil)
			if err != nil {
				logger.Error(fmt.Sprintf("创建举报 %d/%d 失败", itemIndex+1, numReports),
					zap.Error(err),
					zap.String("title", createReq.Title),
					zap.String("city", createReq.City))
				return
			}
			logger.Info(fmt.Sprintf("成功创建举报 %d/%d", itemIndex+1, numReports),
				zap.String("report_id", resp.ReportID),
				zap.String("title", createReq.Title))

			// 为每条举报模拟 0-8 个独立会话的投票，覆盖派生分数的各个区间
			numVotes := gofakeit.Number(0, 8)
			for v := 0; v < numVotes; v++ {
				sessionID := uuid.New().String()
				voteCategory := enums.AllVoteCategories[gofakeit.Number(0, len(enums.AllVoteCategories)-1)]
				if _, voteErr := voteSvc.CastVote(ctx, resp.ReportID, sessionID, voteCategory); voteErr != nil {
					logger.Error("模拟投票失败",
						zap.Error(voteErr),
						zap.String("report_id", resp.ReportID),
						zap.String("category", voteCategory.String()))
				}
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
