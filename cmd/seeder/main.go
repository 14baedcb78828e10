package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/report_service/classifier"
	appConfig "github.com/Xushengqwer/report_service/config"
	"github.com/Xushengqwer/report_service/dependencies"
	"github.com/Xushengqwer/report_service/mq/producer"
	"github.com/Xushengqwer/report_service/repo/mysql"
	reportServicePkg "github.com/Xushengqwer/report_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numReports int
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numReports, "n", 50, "要生成的举报数量 (默认: 50)")
	var waitSeconds int
	flag.IntVar(&waitSeconds, "wait", 5, "数据填充后等待的秒数 (确保异步任务完成, 默认: 5秒)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' (尝试绝对路径: '%s') 生成 %d 条测试举报...\n", configFile, absConfigFile, numReports)

	if numReports <= 0 {
		fmt.Println("错误: 生成的举报数量必须大于 0")
		os.Exit(1)
	}
	if waitSeconds < 0 {
		fmt.Println("错误: 等待秒数不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.ReportConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")
	if cfg.MySQLConfig.Write.DSN == "" {
		fmt.Println("警告: MySQL Write DSN 为空。请检查配置文件中 `mysqlConfig.write.dsn` 是否存在且有值。")
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		logger.Info("Seeder: 正在刷新日志...")
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化 MySQL 数据库连接 ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	// --- 4. 初始化 Kafka 生产者 ---
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化 (Seeder)")
	} else {
		logger.Warn("未配置 Kafka brokers，跳过 Kafka 生产者初始化 (Seeder)")
	}

	// --- 5. 初始化 COS 客户端 ---
	cos, cosError := dependencies.InitCOS(&cfg.COSConfig, logger)
	if cosError != nil {
		logger.Fatal("初始化 cos客户端 失败", zap.Error(cosError))
	}
	logger.Info("COS 客户端已初始化 (Seeder)")

	// --- 6. 初始化 Repositories ---
	reportRepo := mysql.NewReportRepository(db, logger)
	evidenceRepo := mysql.NewReportEvidenceRepository(db)
	voteRepo := mysql.NewThreatVoteRepository(db, logger)

	// --- 7. 初始化 Services ---
	reportSvc := reportServicePkg.NewReportService(
		db,
		reportRepo,
		evidenceRepo,
		cos,
		classifier.NewKeywordAnalyzer(),
		kafkaProducer,
		logger,
	)
	voteSvc := reportServicePkg.NewVoteService(db, reportRepo, voteRepo, kafkaProducer, logger)
	logger.Info("ReportService / VoteService 已初始化 (Seeder)")

	// --- 8. 执行数据填充 ---
	ctx := context.Background()
	startTime := time.Now()
	logger.Info("开始执行数据填充...", zap.Int("预计数量", numReports))

	Seed(ctx, reportSvc, voteSvc, logger, numReports)

	duration := time.Since(startTime)
	logger.Info("数据填充主要逻辑完成！", zap.Duration("耗时", duration))

	// --- 9. 等待一段时间以确保异步 Kafka 任务有时间发送 ---
	if waitSeconds > 0 {
		logger.Info(fmt.Sprintf("Seeder: 数据填充请求已发送，等待 %d 秒以允许异步 Kafka 消息发送...", waitSeconds))
		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	fmt.Printf("数据填充完成！总耗时（包括等待）: %v\n", time.Since(startTime))
	logger.Info("Seeder main: 所有任务完成（包括等待期），准备退出。")
}
