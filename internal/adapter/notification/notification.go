package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotifyIncidentReported NotificationType = "incident_reported" // 事故上报
	NotifyIncidentHigh     NotificationType = "incident_high"     // 高危事故
	NotifyRequestCreated   NotificationType = "request_created"   // 工人申请提交
	NotifyRequestResolved  NotificationType = "request_resolved"  // 工人申请处理完毕
	NotifyCertExpiring     NotificationType = "cert_expiring"     // 证书即将到期
	NotifyCrewDissolved    NotificationType = "crew_dissolved"    // 班组解散
	NotifyProjectFinalized NotificationType = "project_finalized" // 项目终结
)

// NotificationMessage 通知消息
type NotificationMessage struct {
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Extra     map[string]interface{} `json:"extra,omitempty"` // 额外信息
}

// Notifier 对外通知渠道
type Notifier interface {
	// Send 发送通知
	Send(ctx context.Context, msg *NotificationMessage) error
}

// ============= Lark 通知适配器 =============

// LarkNotifier Lark通知器
type LarkNotifier struct {
	webhookURL string
	enabled    bool
	logger     *zap.Logger
	client     *http.Client
}

// NewLarkNotifier 创建Lark通知器
func NewLarkNotifier(webhookURL string, enabled bool, logger *zap.Logger) *LarkNotifier {
	return &LarkNotifier{
		webhookURL: webhookURL,
		enabled:    enabled,
		logger:     logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send 发送通知
func (n *LarkNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	if !n.enabled {
		n.logger.Debug("通知已禁用,跳过发送")
		return nil
	}

	if n.webhookURL == "" {
		n.logger.Warn("Lark Webhook URL未配置")
		return nil
	}

	larkMsg := n.buildLarkMessage(msg)

	jsonData, err := json.Marshal(larkMsg)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Lark API返回错误状态码: %d", resp.StatusCode)
	}

	n.logger.Info("Lark通知发送成功",
		zap.String("type", string(msg.Type)),
		zap.String("title", msg.Title))

	return nil
}

// buildLarkMessage 构建Lark消息格式
func (n *LarkNotifier) buildLarkMessage(msg *NotificationMessage) map[string]interface{} {
	color := colorFor(msg.Type)

	// Lark富文本消息格式
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": msg.Title,
				},
				"template": color,
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "lark_md",
						"content": msg.Content,
					},
				},
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "plain_text",
						"content": fmt.Sprintf("时间: %s", msg.Timestamp.Format("2006-01-02 15:04:05")),
					},
				},
			},
		},
	}
}

func colorFor(t NotificationType) string {
	switch t {
	case NotifyIncidentHigh:
		return "red"
	case NotifyIncidentReported, NotifyCertExpiring:
		return "orange"
	case NotifyRequestResolved, NotifyProjectFinalized:
		return "green"
	case NotifyRequestCreated, NotifyCrewDissolved:
		return "blue"
	default:
		return "grey"
	}
}

// ============= 多通知器 =============

// MultiNotifier 多通知器(支持同时发送到多个渠道)
type MultiNotifier struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewMultiNotifier 创建多通知器
func NewMultiNotifier(logger *zap.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Send 发送到所有通知器
func (m *MultiNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, msg); err != nil {
			m.logger.Error("发送通知失败", zap.Error(err))
			lastErr = err
			// 继续发送其他通知器
		}
	}
	return lastErr
}

// ============= 日志通知器(仅记录日志,不发送实际通知) =============

// LogNotifier 日志通知器
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

// Send 记录通知到日志
func (n *LogNotifier) Send(ctx context.Context, msg *NotificationMessage) error {
	n.logger.Info("📢 通知",
		zap.String("type", string(msg.Type)),
		zap.String("title", msg.Title),
		zap.String("content", msg.Content),
		zap.Any("extra", msg.Extra))
	return nil
}

// FromConfig 按配置挑选通知渠道, 未启用或渠道未知时退回日志通知。
func FromConfig(enabled bool, provider, webhookURL string, logger *zap.Logger) Notifier {
	if !enabled {
		return NewLogNotifier(logger)
	}
	switch provider {
	case "lark":
		return NewLarkNotifier(webhookURL, true, logger)
	default:
		logger.Warn("未知的通知渠道, 回退为日志通知", zap.String("provider", provider))
		return NewLogNotifier(logger)
	}
}
