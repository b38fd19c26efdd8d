package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"gohan-planner/internal/app"
	"gohan-planner/internal/config"
	"gohan-planner/internal/logger"
	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/metrics"

	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	rt, err := app.Build(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer rt.Close()

	if err := run(ctx, cfg, rt, os.Args[1], os.Args[2:]); err != nil {
		rt.Close()
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, cfg *config.Config, rt *app.Runtime, cmd string, args []string) error {
	switch cmd {
	case "generate":
		flags := pflag.NewFlagSet("generate", pflag.ExitOnError)
		asJSON := flags.Bool("json", false, "Print the plan as JSON")
		flags.Parse(args)

		fmt.Println("AIが今週の献立を考えています...")
		plan, err := rt.App.GenerateWeeklyPlan(ctx)
		if err != nil {
			return err
		}
		return printPlan(plan, *asJSON)

	case "show":
		flags := pflag.NewFlagSet("show", pflag.ExitOnError)
		asJSON := flags.Bool("json", false, "Print the plan as JSON")
		shopping := flags.Bool("shopping", false, "Print only the shopping list")
		flags.Parse(args)

		plan, err := rt.App.CurrentPlan(ctx)
		if err != nil {
			return err
		}
		if plan == nil {
			fmt.Println("献立がまだありません。`gohan generate` で生成してください。")
			return nil
		}
		if *shopping {
			printShopping(plan)
			return nil
		}
		return printPlan(plan, *asJSON)

	case "favorites":
		flags := pflag.NewFlagSet("favorites", pflag.ExitOnError)
		remove := flags.String("remove", "", "Remove the favorite with this meal id")
		toggle := flags.String("toggle", "", "Toggle a meal of the current plan by id")
		flags.Parse(args)

		if *remove != "" {
			if err := rt.App.RemoveFavorite(ctx, *remove); err != nil {
				return err
			}
		}
		if *toggle != "" {
			on, err := rt.App.ToggleFavoriteByID(ctx, *toggle)
			if err != nil {
				return err
			}
			fmt.Printf("%s: favorite=%v\n", *toggle, on)
		}

		favorites, err := rt.App.Favorites(ctx)
		if err != nil {
			return err
		}
		if len(favorites) == 0 {
			fmt.Println("まだお気に入りがありません")
			return nil
		}
		for _, f := range favorites {
			fmt.Printf("%-10s %s (%d分 / %dkcal) saved %s\n", f.ID, f.Meal.Name, f.Meal.CookingTime, f.Meal.Calories, f.SavedAt)
		}
		return nil

	case "metrics":
		flags := pflag.NewFlagSet("metrics", pflag.ExitOnError)
		days := flags.Int("days", 7, "Report the last N days")
		notify := flags.Bool("notify", false, "Also send the report to Telegram")
		flags.Parse(args)

		usage, err := rt.Metrics.GetDailyUsage(ctx, *days)
		if err != nil {
			return err
		}
		health := metrics.GetSysHealth(cfg.DataDir)
		if len(usage) == 0 {
			fmt.Println("No data yet")
		}
		for _, d := range usage {
			fmt.Printf("%s  %6d prompt  %6d completion  %3d execs  %3d failed\n", d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution, d.Failures)
		}
		fmt.Printf("Disk data: %s\n", health.DataDiskSize)

		if *notify {
			if rt.Notify == nil {
				return fmt.Errorf("telegram is not configured")
			}
			return rt.Notify.NotifyReport(usage, health)
		}
		return nil

	case "metrics-cleanup":
		flags := pflag.NewFlagSet("metrics-cleanup", pflag.ExitOnError)
		days := flags.Int("days", 30, "Keep records for the last N days")
		flags.Parse(args)

		affected, err := rt.Metrics.Cleanup(ctx, *days)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printPlan(plan *mealplan.WeeklyPlan, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	if weekRange, err := mealplan.WeekRange(plan.WeekOf); err == nil {
		fmt.Printf("今週の夕食 (%s)\n\n", weekRange)
	}
	for _, m := range plan.Meals {
		fmt.Printf("%s  %s  [%s]  %d分 / %dkcal  (%s)\n", m.Day, m.Name, strings.Join(m.Tags, "・"), m.CookingTime, m.Calories, m.ID)
		if m.Description != "" {
			fmt.Printf("        %s\n", m.Description)
		}
	}
	fmt.Println()
	printShopping(plan)
	return nil
}

func printShopping(plan *mealplan.WeeklyPlan) {
	fmt.Println("買い物リスト")
	for _, group := range mealplan.GroupShoppingList(plan.ShoppingList) {
		fmt.Printf("\n%s %s\n", group.Icon, group.Category)
		for _, item := range group.Items {
			style := mealplan.StorageStyleFor(item.StorageMethod)
			fmt.Printf("  - %s %s  %s%s", item.Name, item.Amount, style.Icon, style.Method)
			if item.StorageNote != "" {
				fmt.Printf("  %s", item.StorageNote)
			}
			fmt.Println()
		}
	}
}

func printUsage() {
	fmt.Println("Usage: gohan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate           Generate, stamp and save this week's plan")
	fmt.Println("  show               Print the saved plan (--shopping for the list only)")
	fmt.Println("  favorites          List favorites (--toggle ID, --remove ID)")
	fmt.Println("  metrics            Show recent token usage (--days N, --notify)")
	fmt.Println("  metrics-cleanup    Remove old metric records (--days N)")
}
