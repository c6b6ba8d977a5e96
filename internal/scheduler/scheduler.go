package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"crew-hub/internal/adapter/notification"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/repository"
	"crew-hub/internal/service"
)

// Scheduler 调度器
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	workerRepo    repository.WorkerRepository
	notifier      service.NotificationService
	external      notification.Notifier
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理
}

// NewScheduler 创建调度器
func NewScheduler(db *gorm.DB, logger *zap.Logger, external notification.Notifier) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:          c,
		logger:        logger,
		workerRepo:    repository.NewWorkerRepository(db),
		notifier:      service.NewNotificationService(repository.NewNotificationRepository(db)),
		external:      external,
		cronSchedules: make(map[string]cron.EntryID),
	}
}

// Start 启动调度器
func (s *Scheduler) Start(cfg *config.Config) error {
	log := s.logger.Sugar()

	log.Info("启动定时任务调度器...")

	// cron 表达式格式: 秒 分 时 日 月 周
	cronExpr := cfg.Scheduler.CertExpiryCron
	if cronExpr == "" {
		cronExpr = "0 0 8 * * *" // 默认: 每天早上8点
		log.Warn("未配置scheduler.cert_expiry_cron，使用默认值", zap.String("cron", cronExpr))
	}

	days := cfg.Scheduler.CertExpiryDays
	if days <= 0 {
		days = 30
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		log.Info("执行定时任务: 证书到期扫描")
		if err := s.ScanExpiringCertifications(days); err != nil {
			log.Errorf("证书到期扫描任务执行失败: %v", err)
		}
	})

	if err != nil {
		log.Errorf("注册证书到期扫描任务失败: cron=%v err=%v", cronExpr, err)
		return err
	}

	s.cronSchedules["cert_expiry"] = entryID
	log.Infof("证书到期扫描任务已注册: %s entry_id=%d", cronExpr, entryID)

	// 启动 cron
	s.cron.Start()
	log.Info("定时任务调度器启动成功")

	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

// ScanExpiringCertifications 扫描即将到期的证书并逐人提醒
func (s *Scheduler) ScanExpiringCertifications(days int) error {
	deadline := time.Now().AddDate(0, 0, days)
	certs, err := s.workerRepo.ListExpiringCertifications(deadline)
	if err != nil {
		return err
	}
	if len(certs) == 0 {
		s.logger.Info("没有即将到期的证书")
		return nil
	}

	for _, cert := range certs {
		if cert.Worker == nil || cert.ExpiresAt == nil {
			continue
		}
		message := fmt.Sprintf("证书 %s 将于 %s 到期, 请及时更新",
			cert.Name, cert.ExpiresAt.Format("2006-01-02"))
		s.notifier.Notify(cert.Worker.UserID, message)
	}

	if err := s.external.Send(context.Background(), &notification.NotificationMessage{
		Type:      notification.NotifyCertExpiring,
		Title:     "证书到期提醒",
		Content:   fmt.Sprintf("%d 本证书将在 %d 天内到期", len(certs), days),
		Timestamp: time.Now(),
	}); err != nil {
		s.logger.Error("外部通知发送失败", zap.Error(err))
	}

	s.logger.Info("证书到期扫描完成",
		zap.Int("expiring", len(certs)),
		zap.Int("days", days))

	return nil
}
