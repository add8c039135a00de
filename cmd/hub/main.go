// Package main - точка входа ClassQuest Hub.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: record store поверх Redis/PostgreSQL, event bus
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ol2009/classquest-hub/config"
	"github.com/ol2009/classquest-hub/internal/application/command"
	"github.com/ol2009/classquest-hub/internal/application/query"
	"github.com/ol2009/classquest-hub/internal/catalog"
	"github.com/ol2009/classquest-hub/internal/domain/avatar"
	"github.com/ol2009/classquest-hub/internal/domain/shared"
	"github.com/ol2009/classquest-hub/internal/domain/student"
	"github.com/ol2009/classquest-hub/internal/infrastructure/messaging"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/memory"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/postgres"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/records"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
	redisstore "github.com/ol2009/classquest-hub/internal/infrastructure/persistence/redis"
	"github.com/ol2009/classquest-hub/pkg/logger"
	"github.com/ol2009/classquest-hub/pkg/retry"
)

func main() {
	if err := run(context.Background()); err != nil {
		switch {
		case shared.IsValidation(err):
			fmt.Fprintln(os.Stderr, "invalid input:", err)
		case shared.IsNotFound(err):
			fmt.Fprintln(os.Stderr, "not found:", err)
		default:
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Output:    os.Stderr,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	store, cleanup, err := dialStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	app := buildApp(cfg, store, log)
	defer app.bus.Close()

	return dispatch(ctx, app, cfg, os.Args[1:])
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

// application bundles the wired command and query handlers.
type application struct {
	bus *messaging.InMemoryEventBus

	addStudents      *command.AddStudentsHandler
	updateStudent    *command.UpdateStudentHandler
	deleteStudent    *command.DeleteStudentHandler
	resetClass       *command.ResetClassHandler
	normalizeClass   *command.NormalizeClassExpHandler
	normalizeStudent *command.NormalizeStudentExpHandler
	shopItems        *command.ShopItemsHandler
	purchases        *command.PurchasesHandler
	renameItem       *command.RenameItemHandler

	listStudents    *query.ListStudentsHandler
	classOverview   *query.ClassOverviewHandler
	classDetail     *query.ClassDetailHandler
	shopCatalog     *query.ShopCatalogHandler
	purchaseHistory *query.PurchaseHistoryHandler
	avatarStack     *query.AvatarStackHandler
	inventory       *query.InventoryHandler

	ledger    *records.ShopLedger
	overrides *records.OverrideStore
}

func buildApp(cfg *config.Config, store recordstore.Store, log *logger.Logger) *application {
	bus := messaging.NewInMemoryEventBus(log)
	if cfg.Observability.AuditEvents {
		_ = bus.SubscribeAll(messaging.AuditLogger(log))
	}

	repo := records.NewStudentRepository(store, log)
	replicator := records.NewViewReplicator(store, log)
	ledger := records.NewShopLedger(store, log)
	overrides := records.NewOverrideStore(store, log)
	items := catalog.NewStatic()

	pick := student.RandPicker(rand.New(rand.NewSource(time.Now().UnixNano())))

	var honorificPick student.Picker
	if cfg.Features.IsEnabled(config.FeatureRosterHonorifics) {
		honorificPick = pick
	}

	return &application{
		bus: bus,

		addStudents:      command.NewAddStudentsHandler(repo, bus),
		updateStudent:    command.NewUpdateStudentHandler(repo, replicator, bus),
		deleteStudent:    command.NewDeleteStudentHandler(repo, replicator, bus),
		resetClass:       command.NewResetClassHandler(repo, replicator, bus, pick),
		normalizeClass: command.NewNormalizeClassExpHandler(repo, replicator, bus, log).
			WithStatsBackfill(cfg.Features.IsEnabled(config.FeatureRepairStatsBackfill)),
		normalizeStudent: command.NewNormalizeStudentExpHandler(repo),
		shopItems:        command.NewShopItemsHandler(ledger, bus),
		purchases:        command.NewPurchasesHandler(ledger, bus),
		renameItem:       command.NewRenameItemHandler(items, overrides, bus),

		listStudents:    query.NewListStudentsHandler(repo, honorificPick),
		classOverview:   query.NewClassOverviewHandler(replicator),
		classDetail:     query.NewClassDetailHandler(replicator),
		shopCatalog:     query.NewShopCatalogHandler(ledger),
		purchaseHistory: query.NewPurchaseHistoryHandler(ledger),
		avatarStack:     query.NewAvatarStackHandler(items, overrides),
		inventory:       query.NewInventoryHandler(items, overrides),

		ledger:    ledger,
		overrides: overrides,
	}
}

// dialStore opens the configured record store backend, retrying transient
// dial failures with exponential backoff.
func dialStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (recordstore.Store, func(), error) {
	retryCfg := retry.Config{
		MaxAttempts:  cfg.Store.DialAttempts,
		InitialDelay: cfg.Store.DialBaseDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			log.Warn("store dial failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err))
		},
	}

	switch cfg.Store.Backend {
	case config.StoreRedis:
		var store *redisstore.Store
		err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
			var dialErr error
			store, dialErr = redisstore.NewStore(redisstore.Config{
				Host:         cfg.Redis.Host,
				Port:         cfg.Redis.Port,
				Password:     cfg.Redis.Password,
				DB:           cfg.Redis.DB,
				PoolSize:     cfg.Redis.PoolSize,
				MinIdleConns: cfg.Redis.MinIdleConns,
				MaxRetries:   3,
				DialTimeout:  cfg.Redis.DialTimeout,
				ReadTimeout:  cfg.Redis.ReadTimeout,
				WriteTimeout: cfg.Redis.WriteTimeout,
			})
			return dialErr
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		log.Info("record store ready", logger.String("backend", "redis"))
		return store, func() { _ = store.Close() }, nil

	case config.StorePostgres:
		var conn *postgres.Connection
		err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
			var dialErr error
			conn, dialErr = postgres.Connect(ctx, postgres.Config{
				URL:             cfg.Database.URL,
				Host:            cfg.Database.Host,
				Port:            cfg.Database.Port,
				Database:        cfg.Database.Name,
				User:            cfg.Database.User,
				Password:        cfg.Database.Password,
				SSLMode:         cfg.Database.SSLMode,
				MaxConns:        int32(cfg.Database.MaxOpenConns),
				MinConns:        int32(cfg.Database.MaxIdleConns),
				MaxConnLifetime: cfg.Database.ConnMaxLifetime,
				ConnectTimeout:  cfg.Database.QueryTimeout,
			})
			return dialErr
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres store: %w", err)
		}
		log.Info("record store ready", logger.String("backend", "postgres"))
		return postgres.NewStore(conn), conn.Close, nil

	case config.StoreMemory:
		log.Warn("using in-memory record store, data will not survive restarts")
		return memory.NewStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLI
// ══════════════════════════════════════════════════════════════════════════════

const usage = `ClassQuest Hub

Usage:
  hub classes                                    list known classes
  hub students  -class ID                        list students of a class
  hub add       -class ID -names "Kim, Lee"      add students
  hub set       -class ID -student ID [-name N] [-points P]  edit a student
  hub delete    -class ID -student ID            remove a student
  hub reset     -class ID                        wipe class progress
  hub normalize -class ID [-student ID]          repair legacy exp values
  hub shop      -class ID [-editable]            list shop items
  hub shop-add  -class ID -name N -price P       add a coupon
  hub buy       -class ID -student ID -item ID   record a purchase
  hub redeem    -class ID -purchase ID           mark a purchase used
  hub seed-shop -class ID                        write the starter coupons
  hub rename    -item ID -name N                 override an item label
  hub inventory [-rarity R]                      list avatar catalog items
`

func dispatch(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "classes":
		return runClasses(ctx, app)
	case "students":
		return runStudents(ctx, app, cfg, rest)
	case "add":
		return runAdd(ctx, app, cfg, rest)
	case "set":
		return runSet(ctx, app, cfg, rest)
	case "delete":
		return runDelete(ctx, app, cfg, rest)
	case "reset":
		return runReset(ctx, app, cfg, rest)
	case "normalize":
		return runNormalize(ctx, app, cfg, rest)
	case "shop":
		return runShop(ctx, app, cfg, rest)
	case "shop-add":
		return runShopAdd(ctx, app, cfg, rest)
	case "buy":
		return runBuy(ctx, app, cfg, rest)
	case "redeem":
		return runRedeem(ctx, app, cfg, rest)
	case "seed-shop":
		return runSeedShop(ctx, app, cfg, rest)
	case "rename":
		return runRename(ctx, app, cfg, rest)
	case "inventory":
		return runInventory(ctx, app, rest)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func classFlag(fs *flag.FlagSet, cfg *config.Config) *string {
	return fs.String("class", cfg.App.DefaultClassID, "class ID")
}

func requireFeature(cfg *config.Config, name string) error {
	if !cfg.Features.IsEnabled(name) {
		return fmt.Errorf("feature %s is disabled", name)
	}
	return nil
}

func runClasses(ctx context.Context, app *application) error {
	res, err := app.classOverview.Handle(ctx, query.ClassOverviewQuery{})
	if err != nil {
		return err
	}
	if len(res.Classes) == 0 {
		fmt.Println("no classes")
		return nil
	}
	for _, c := range res.Classes {
		fmt.Printf("%s\t%s\t%s\t%d students\n", c.ID, c.Name, c.Grade, c.StudentCount)
	}
	return nil
}

func runStudents(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("students", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.listStudents.Handle(ctx, query.ListStudentsQuery{ClassID: *classID})
	if err != nil {
		return err
	}
	for i := range res.Students {
		s := &res.Students[i]
		level, exp := 0, 0
		if s.Stats != nil {
			level, exp = int(s.Stats.Level), int(s.Stats.Exp)
		}
		fmt.Printf("%2d  %-20s %-12s lvl %d  exp %d  pts %d\n",
			s.Number, s.Name, s.Honorific, level, exp, int(s.Points))
	}
	return nil
}

func runAdd(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	names := fs.String("names", "", "student names, comma or space separated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.addStudents.Handle(ctx, command.AddStudentsCommand{
		ClassID:  *classID,
		RawNames: *names,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added %d students (class size %d)\n", len(res.Added), res.Total)
	return nil
}

func runSet(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	studentID := fs.String("student", "", "student ID")
	name := fs.String("name", "", "new name")
	points := fs.Int("points", -1, "new point balance")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := command.UpdateStudentCommand{
		ClassID:   *classID,
		StudentID: *studentID,
		Name:      *name,
	}
	if *points >= 0 {
		cmd.Points = points
	}

	res, err := app.updateStudent.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s (points %d)\n", res.Student.Name, int(res.Student.Points))
	for _, e := range res.ReplicationErrors {
		fmt.Println("warning:", e)
	}
	return nil
}

func runDelete(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	studentID := fs.String("student", "", "student ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.deleteStudent.Handle(ctx, command.DeleteStudentCommand{
		ClassID:   *classID,
		StudentID: *studentID,
	})
	if err != nil {
		return err
	}
	if !res.Removed {
		fmt.Println("student not found, nothing removed")
		return nil
	}
	fmt.Printf("removed (class size %d)\n", res.Total)
	for _, e := range res.ReplicationErrors {
		fmt.Println("warning:", e)
	}
	return nil
}

func runReset(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.resetClass.Handle(ctx, command.ResetClassCommand{ClassID: *classID})
	if err != nil {
		return err
	}
	fmt.Printf("reset %d students\n", res.ResetCount)
	for _, e := range res.ReplicationErrors {
		fmt.Println("warning:", e)
	}
	return nil
}

func runNormalize(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if err := requireFeature(cfg, config.FeatureRepairExpNormalization); err != nil {
		return err
	}

	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	studentID := fs.String("student", "", "repair only this student")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *studentID != "" {
		res, err := app.normalizeStudent.Handle(ctx, command.NormalizeStudentExpCommand{
			ClassID:   *classID,
			StudentID: *studentID,
		})
		if err != nil {
			return err
		}
		if res.Changed {
			fmt.Printf("exp rescaled to %d\n", int(res.Exp))
		} else {
			fmt.Println("nothing to repair")
		}
		return nil
	}

	res, err := app.normalizeClass.Handle(ctx, command.NormalizeClassExpCommand{ClassID: *classID})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	for _, e := range res.Errors {
		fmt.Println("warning:", e)
	}
	return nil
}

func runShop(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("shop", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	editable := fs.Bool("editable", false, "show only teacher-authored items")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.shopCatalog.Handle(ctx, query.ShopCatalogQuery{
		ClassID:      *classID,
		EditableOnly: *editable,
	})
	if err != nil {
		return err
	}
	for _, item := range res.Items {
		fmt.Printf("%s\t%-24s %4d pts\t%s\n", item.ID, item.Name, item.Price, item.Type)
	}
	return nil
}

func runShopAdd(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("shop-add", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	name := fs.String("name", "", "item name")
	desc := fs.String("desc", "", "item description")
	price := fs.Int("price", 0, "item price in points")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.shopItems.HandleAdd(ctx, command.AddShopItemCommand{
		ClassID:     *classID,
		Name:        *name,
		Description: *desc,
		Price:       *price,
	})
	if err != nil {
		return err
	}
	fmt.Printf("added item %s\n", res.Item.ID)
	return nil
}

func runBuy(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if err := requireFeature(cfg, config.FeatureShopPurchases); err != nil {
		return err
	}

	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	studentID := fs.String("student", "", "student ID")
	itemID := fs.String("item", "", "item ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.purchases.HandleRecord(ctx, command.RecordPurchaseCommand{
		ClassID:   *classID,
		StudentID: *studentID,
		ItemID:    *itemID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("recorded purchase %s\n", res.Purchase.ID)
	return nil
}

func runRedeem(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if err := requireFeature(cfg, config.FeatureShopPurchases); err != nil {
		return err
	}

	fs := flag.NewFlagSet("redeem", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	purchaseID := fs.String("purchase", "", "purchase ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.purchases.HandleMarkUsed(ctx, command.MarkPurchaseUsedCommand{
		ClassID:    *classID,
		PurchaseID: *purchaseID,
	})
	if err != nil {
		return err
	}
	if res.Purchase.UsedDate != nil {
		fmt.Printf("purchase %s used at %s\n", res.Purchase.ID, res.Purchase.UsedDate.Format(time.RFC3339))
	}
	return nil
}

func runSeedShop(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if err := requireFeature(cfg, config.FeatureShopSeedItems); err != nil {
		return err
	}

	fs := flag.NewFlagSet("seed-shop", flag.ContinueOnError)
	classID := classFlag(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}

	existing, err := app.ledger.ListItems(ctx, *classID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Println("shop already has items, nothing seeded")
		return nil
	}

	for _, item := range catalog.SeedShopItems() {
		if err := app.ledger.AddItem(ctx, *classID, item); err != nil {
			return err
		}
	}
	fmt.Printf("seeded %d items\n", len(catalog.SeedShopItems()))
	return nil
}

func runRename(ctx context.Context, app *application, cfg *config.Config, args []string) error {
	if err := requireFeature(cfg, config.FeatureAvatarRenames); err != nil {
		return err
	}

	fs := flag.NewFlagSet("rename", flag.ContinueOnError)
	itemID := fs.String("item", "", "catalog item ID")
	name := fs.String("name", "", "new display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.renameItem.Handle(ctx, command.RenameItemCommand{
		ItemID:  *itemID,
		NewName: *name,
	})
	if err != nil {
		return err
	}
	fmt.Printf("item %s now displays as %q\n", res.ItemID, res.Name)
	return nil
}

func runInventory(ctx context.Context, app *application, args []string) error {
	fs := flag.NewFlagSet("inventory", flag.ContinueOnError)
	rarity := fs.String("rarity", "", "minimum rarity (common, rare, epic, legendary, mythic)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := app.inventory.Handle(ctx, query.InventoryQuery{
		MinRarity: avatarRarity(*rarity),
	})
	if err != nil {
		return err
	}
	for _, item := range res.Items {
		fmt.Printf("%s\t%-20s %-8s %s\n", item.ItemID, item.DisplayName, item.Layer, item.Rarity)
	}
	return nil
}

func avatarRarity(s string) avatar.Rarity {
	return avatar.Rarity(strings.ToLower(strings.TrimSpace(s)))
}
