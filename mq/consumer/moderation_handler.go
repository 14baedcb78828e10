package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/models/events"
	"github.com/Xushengqwer/report_service/service"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// --- FlagConfirmedHandler ---

// FlagConfirmedHandler 消费人工复核确认事件：维持社区标记并记录裁决备注
type FlagConfirmedHandler struct {
	logger             *core.ZapLogger
	reportAdminService service.ReportAdminService
}

func NewFlagConfirmedHandler(logger *core.ZapLogger, reportAdminService service.ReportAdminService) *FlagConfirmedHandler {
	return &FlagConfirmedHandler{
		logger:             logger,
		reportAdminService: reportAdminService,
	}
}

func (h *FlagConfirmedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("FlagConfirmedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.ModerationDecisionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("FlagConfirmedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	h.logger.Info("FlagConfirmedHandler: 成功解析复核确认消息",
		zap.String("event_id", event.EventID),
		zap.String("report_id", event.ReportID))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.reportAdminService.ApplyModerationDecision(updateCtx, event.ReportID, true, event.Note)
	if err != nil {
		h.logger.Error("FlagConfirmedHandler: 确认社区标记失败", zap.Error(err), zap.String("report_id", event.ReportID))
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("FlagConfirmedHandler: 尝试更新不存在或已删除的举报", zap.String("report_id", event.ReportID))
			return nil // 不再重试
		}
		return fmt.Errorf("FlagConfirmedHandler: 调用 ApplyModerationDecision 失败: %w", err)
	}

	h.logger.Info("FlagConfirmedHandler: 成功确认社区标记", zap.String("report_id", event.ReportID))
	return nil
}

// --- FlagClearedHandler ---

// FlagClearedHandler 消费人工复核撤销事件：清除社区标记并记录裁决备注
type FlagClearedHandler struct {
	logger             *core.ZapLogger
	reportAdminService service.ReportAdminService
}

func NewFlagClearedHandler(logger *core.ZapLogger, reportAdminService service.ReportAdminService) *FlagClearedHandler {
	return &FlagClearedHandler{
		logger:             logger,
		reportAdminService: reportAdminService,
	}
}

func (h *FlagClearedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("FlagClearedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.ModerationDecisionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("FlagClearedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	h.logger.Info("FlagClearedHandler: 成功解析复核撤销消息",
		zap.String("event_id", event.EventID),
		zap.String("report_id", event.ReportID))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.reportAdminService.ApplyModerationDecision(updateCtx, event.ReportID, false, event.Note)
	if err != nil {
		h.logger.Error("FlagClearedHandler: 撤销社区标记失败", zap.Error(err), zap.String("report_id", event.ReportID))
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("FlagClearedHandler: 尝试更新不存在或已删除的举报", zap.String("report_id", event.ReportID))
			return nil // 不再重试
		}
		return fmt.Errorf("FlagClearedHandler: 调用 ApplyModerationDecision 失败: %w", err)
	}

	h.logger.Info("FlagClearedHandler: 成功撤销社区标记", zap.String("report_id", event.ReportID))
	return nil
}
