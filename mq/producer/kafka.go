package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/config"
	"github.com/Xushengqwer/report_service/models/enums"
	"github.com/Xushengqwer/report_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendReportSubmittedEvent 发送举报提交事件到 Kafka
// - 意图: 将新创建的举报发布到 ReportSubmitted 主题，供审核/通知服务消费
// - 输入: ctx context.Context 上下文, reportData events.ReportData 举报核心数据
// - 输出: error 错误信息
func (p *KafkaProducer) SendReportSubmittedEvent(ctx context.Context, reportData events.ReportData) error {
	event := events.ReportSubmittedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Report:    reportData,
	}
	return p.SendEvent(ctx, p.topics.ReportSubmitted, event)
}

// SendReportStatusChangedEvent 发送举报状态变更事件到 Kafka
// - 意图: 管理端更新处理状态后通知下游（如面向举报人的通知服务）
// - 输入: ctx 上下文, reportID 举报业务ID, status 新状态, statusMessage 状态说明
// - 输出: error 错误信息
func (p *KafkaProducer) SendReportStatusChangedEvent(ctx context.Context, reportID string, status enums.Status, statusMessage string) error {
	event := events.ReportStatusChangedEvent{
		EventID:       uuid.New().String(),
		Timestamp:     time.Now(),
		ReportID:      reportID,
		Status:        status,
		StatusMessage: statusMessage,
	}
	return p.SendEvent(ctx, p.topics.ReportStatusChanged, event)
}

// SendReportCommunityFlaggedEvent 发送社区标记事件到 Kafka
// - 意图: 举报首次触发社区标记条件时通知人工复核服务
// - 输入: ctx 上下文, reportID 举报业务ID, threatScore 当前威胁分, totalVotes 当前总票数
// - 输出: error 错误信息
func (p *KafkaProducer) SendReportCommunityFlaggedEvent(ctx context.Context, reportID string, threatScore int, totalVotes uint) error {
	event := events.ReportCommunityFlaggedEvent{
		EventID:     uuid.New().String(),
		Timestamp:   time.Now(),
		ReportID:    reportID,
		ThreatScore: threatScore,
		TotalVotes:  totalVotes,
	}
	return p.SendEvent(ctx, p.topics.ReportCommunityFlagged, event)
}
