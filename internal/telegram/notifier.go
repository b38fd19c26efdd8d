package telegram

import (
	"context"
	"fmt"
	"strings"

	"gohan-planner/internal/logger"
	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes plans and reports to a single Telegram chat.
type Notifier struct {
	api    sender
	chatID int64
	log    *logger.Logger
}

// NewNotifier authorizes the bot token and returns a notifier for chatID.
func NewNotifier(token string, chatID int64, log *logger.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	log.Info("telegram notifier authorized", "account", bot.Self.UserName)
	return &Notifier{api: bot, chatID: chatID, log: log}, nil
}

// NotifyPlan sends the plan and its shopping list as two messages. Failures
// are logged and never returned.
func (n *Notifier) NotifyPlan(ctx context.Context, plan *mealplan.WeeklyPlan) {
	if n == nil || plan == nil {
		return
	}
	planText, shoppingText := formatPlanMarkdownParts(plan)
	for _, text := range []string{planText, shoppingText} {
		if ctx.Err() != nil {
			return
		}
		n.send(text)
	}
}

// NotifyReport sends a usage and health report.
func (n *Notifier) NotifyReport(usage []metrics.DailyUsage, health metrics.SysHealth) error {
	msg := tgbotapi.NewMessage(n.chatID, formatReportMarkdown(usage, health))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		n.log.Warn("failed to send telegram message", "chat_id", n.chatID, "error", err)
	}
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "`", "\\`")

func esc(s string) string { return markdownEscaper.Replace(s) }

func formatPlanMarkdownParts(plan *mealplan.WeeklyPlan) (string, string) {
	var pb strings.Builder
	pb.WriteString("📅 *今週の献立*")
	if weekRange, err := mealplan.WeekRange(plan.WeekOf); err == nil {
		fmt.Fprintf(&pb, " (%s)", weekRange)
	}
	pb.WriteString("\n\n")

	for _, m := range plan.Meals {
		fmt.Fprintf(&pb, "*%s*: %s (%d分 / %dkcal)\n", esc(m.Day), esc(m.Name), m.CookingTime, m.Calories)
		if len(m.Tags) > 0 {
			fmt.Fprintf(&pb, "_%s_\n", esc(strings.Join(m.Tags, "・")))
		}
		pb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *買い物リスト*\n")
	for _, group := range mealplan.GroupShoppingList(plan.ShoppingList) {
		fmt.Fprintf(&sb, "\n%s *%s*\n", group.Icon, esc(group.Category))
		for _, item := range group.Items {
			style := mealplan.StorageStyleFor(item.StorageMethod)
			fmt.Fprintf(&sb, "• %s %s %s%s\n", esc(item.Name), esc(item.Amount), style.Icon, style.Method)
		}
	}

	return pb.String(), sb.String()
}

func formatReportMarkdown(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d execs, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	return sb.String()
}
