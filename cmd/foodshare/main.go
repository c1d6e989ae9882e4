// Package main запускает терминальный клиент FoodShare.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/api"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/config"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/gamification"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/i18n"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/navigation"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/offers"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/session"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/store"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/validation"
)

type commandArgs struct {
	email    string
	password string
	name     string
	role     string
	business string
	lang     string
	filter   string
	offerID  int64
	userID   int64
	qrCode   string
	title    string
	quantity int
	discount int
	offType  string
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	// .env удобен при локальной разработке; отсутствие файла не ошибка.
	_ = godotenv.Load()

	var args commandArgs
	cmd := flag.String("cmd", "whoami", "command: login|register|logout|whoami|lang|offers|claim|history|profile|leaderboard|create-offer|verify|admin-stats|admin-pending|admin-approve")
	flag.StringVar(&args.email, "email", "", "account email")
	flag.StringVar(&args.password, "password", "", "account password")
	flag.StringVar(&args.name, "name", "", "display name for registration")
	flag.StringVar(&args.role, "role", "student", "role for registration: student|restaurant")
	flag.StringVar(&args.business, "business", "", "business name for restaurant registration")
	flag.StringVar(&args.lang, "l", "", "interface language: tr|en|hu")
	flag.StringVar(&args.filter, "filter", "all", "offer filter: all|free|discount")
	flag.Int64Var(&args.offerID, "offer", 0, "offer id for claim")
	flag.Int64Var(&args.userID, "user", 0, "user id for admin approval")
	flag.StringVar(&args.qrCode, "qr", "", "QR code for verification")
	flag.StringVar(&args.title, "title", "", "offer title")
	flag.IntVar(&args.quantity, "qty", 1, "offer quantity")
	flag.IntVar(&args.discount, "discount", 0, "offer discount rate, percent")
	flag.StringVar(&args.offType, "type", model.OfferTypeFree, "offer type: free|discount")

	// config.Parse вызывает flag.Parse и разбирает объявленные выше флаги заодно.
	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	st, err := store.New(cfg.StatePath, logger)
	if err != nil {
		sugar.Fatalw("local store initialization error", "error", err.Error())
	}
	defer st.Close()

	translator, err := i18n.New(logger)
	if err != nil {
		sugar.Fatalw("translator initialization error", "error", err.Error())
	}

	client := api.NewClient(cfg.APIAddress)
	mgr := session.NewManager(st, client, translator, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Ничего не выполняется до завершения начальной загрузки.
	mgr.Initialize(ctx)

	a := &app{mgr: mgr, client: client, cfg: cfg, logger: sugar}
	if err := a.run(ctx, *cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type app struct {
	mgr    *session.Manager
	client *api.Client
	cfg    *config.Config
	logger *zap.SugaredLogger
}

func (a *app) run(ctx context.Context, cmd string, args commandArgs) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.mgr.Logout(ctx)
		fmt.Println(a.mgr.T("logout", nil))
		return nil
	case "whoami":
		return a.whoami()
	case "lang":
		if args.lang == "" {
			return errors.New("usage: -cmd lang -l <tr|en|hu>")
		}
		a.mgr.ChangeLanguage(ctx, args.lang)
		fmt.Println(a.mgr.T("lang_changed", map[string]any{"lang": args.lang}))
		return nil
	case "offers":
		return a.listOffers(ctx, args)
	case "claim":
		return a.claim(ctx, args)
	case "history":
		return a.history(ctx, args)
	case "profile":
		return a.profile(ctx)
	case "leaderboard":
		return a.leaderboard(ctx)
	case "create-offer":
		return a.createOffer(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "admin-stats":
		return a.adminStats(ctx)
	case "admin-pending":
		return a.adminPending(ctx)
	case "admin-approve":
		return a.adminApprove(ctx, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// requireSurface проверяет, что команда доступна текущей сессии.
// Нераспознанная роль — тупик без восстановления.
func (a *app) requireSurface(want navigation.Surface) error {
	got := navigation.SurfaceFor(a.mgr.User())
	switch {
	case got == want:
		return nil
	case got == navigation.SurfaceError:
		return errors.New(a.mgr.T("role_unknown", nil))
	case got == navigation.SurfaceAuth:
		return errors.New(a.mgr.T("login_required", nil))
	}
	return errors.New(a.mgr.T("not_allowed", nil))
}

func (a *app) login(ctx context.Context, args commandArgs) error {
	if !validation.IsValidEmail(args.email) || args.password == "" {
		return errors.New("usage: -cmd login -email <email> -password <password>")
	}

	if err := a.mgr.Login(ctx, args.email, args.password); err != nil {
		return err
	}

	fmt.Println(a.mgr.T("welcome", map[string]any{"name": a.mgr.User().Name}))
	return nil
}

func (a *app) register(ctx context.Context, args commandArgs) error {
	if args.name == "" || !validation.IsValidEmail(args.email) || args.password == "" {
		return errors.New("usage: -cmd register -name <name> -email <email> -password <password> [-role restaurant -business <name>]")
	}

	role, _ := model.ParseRole(args.role)
	msg, err := a.mgr.Register(ctx, api.RegisterRequest{
		Name:         args.name,
		Email:        args.email,
		Password:     args.password,
		Role:         role,
		BusinessName: args.business,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", a.mgr.T("success", nil), msg)
	return nil
}

func (a *app) whoami() error {
	u := a.mgr.User()
	surface := navigation.SurfaceFor(u)

	if u == nil {
		fmt.Println(a.mgr.T("login_required", nil))
		return nil
	}
	if surface == navigation.SurfaceError {
		fmt.Println(a.mgr.T("role_unknown", nil))
		return nil
	}

	fmt.Printf("%s <%s> — %s (%s)\n", u.Name, u.Email, a.mgr.T("role_"+string(u.Role), nil), u.Status)
	if token := a.mgr.Token(); token != "" {
		if exp, err := api.TokenExpiry(token); err == nil {
			fmt.Printf("token expires %s\n", exp.Format(time.RFC3339))
		}
	}
	return nil
}

func (a *app) listOffers(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceStudent); err != nil {
		return err
	}

	list, err := a.client.Offers(ctx, a.mgr.User().ID, a.cfg.Lat, a.cfg.Lng)
	if err != nil {
		// Ошибка загрузки не валит клиент: показываем пустой список.
		a.logger.Errorw("fetch offers failed", "error", err)
		fmt.Println(a.mgr.T("no_offers", nil))
		return nil
	}

	f, _ := offers.ParseFilter(args.filter)
	visible := offers.FilterOffers(offers.Sanitize(list), f)

	fmt.Println(a.mgr.T("offers_title", nil))
	if len(visible) == 0 {
		fmt.Println(a.mgr.T("no_offers", nil))
		return nil
	}
	for _, o := range visible {
		label := a.mgr.T("filter_free", nil)
		if o.Type == model.OfferTypeDiscount {
			label = fmt.Sprintf("-%d%%", o.DiscountRate)
		}
		line := fmt.Sprintf("#%d [%s] %s — %s (x%d, %.1f %s)",
			o.ID, label, o.Restaurant, o.Title, o.Quantity, o.Distance, a.mgr.T("dist_km", nil))
		if o.Recommended {
			line += " *"
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) claim(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceStudent); err != nil {
		return err
	}
	if args.offerID == 0 {
		return errors.New("usage: -cmd claim -offer <id>")
	}

	res, err := a.client.ClaimOffer(ctx, a.mgr.User().ID, args.offerID)
	if err != nil {
		return a.surfacedError(err)
	}

	fmt.Println(a.mgr.T("msg_qr_generated", nil))
	fmt.Println(res.QRCode)
	return nil
}

func (a *app) history(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceStudent); err != nil {
		return err
	}

	items, err := a.client.History(ctx, a.mgr.User().ID)
	if err != nil {
		a.logger.Errorw("fetch history failed", "error", err)
		items = nil
	}

	f, _ := offers.ParseFilter(args.filter)
	visible := offers.FilterHistory(items, f)

	fmt.Println(a.mgr.T("history_title", nil))
	for _, it := range visible {
		fmt.Printf("#%d %s — %s [%s] %s (%s)\n", it.ID, it.Date, it.RestaurantName, it.Type, it.OfferTitle, it.Status)
	}
	return nil
}

func (a *app) profile(ctx context.Context) error {
	if err := a.requireSurface(navigation.SurfaceStudent); err != nil {
		return err
	}

	u := a.mgr.User()
	items, err := a.client.History(ctx, u.ID)
	if err != nil {
		a.logger.Errorw("fetch history failed", "error", err)
		items = nil
	}

	stats := gamification.ComputeStats(items)

	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	fmt.Println(a.mgr.T("savings_report", nil))
	fmt.Printf("  %s: %d\n", a.mgr.T("orders", nil), stats.TotalOrders)
	fmt.Printf("  %s: %d\n", a.mgr.T("saved", nil), stats.Points)
	fmt.Printf("  %s: %d\n", a.mgr.T("free_meals", nil), stats.FreeCount)
	if stats.Rank > 0 {
		fmt.Printf("  %s: #%d\n", a.mgr.T("rank_label", nil), stats.Rank)
	}
	fmt.Printf("%s: %d/%d (%.0f%%)\n",
		a.mgr.T("level_progress", nil), stats.Points, stats.NextLevelPoints, gamification.Progress(stats)*100)
	return nil
}

func (a *app) leaderboard(ctx context.Context) error {
	if a.mgr.User() == nil {
		return errors.New(a.mgr.T("login_required", nil))
	}

	entries, err := a.client.Leaderboard(ctx)
	if err != nil {
		a.logger.Errorw("fetch leaderboard failed", "error", err)
		entries = nil
	}

	fmt.Println(a.mgr.T("leaderboard_title", nil))
	for _, e := range entries {
		fmt.Printf("%2d. %s — %d %s (%d)\n", e.Rank, e.Restaurant, e.Points, a.mgr.T("saved", nil), e.Meals)
	}
	return nil
}

func (a *app) createOffer(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceRestaurant); err != nil {
		return err
	}
	if args.title == "" || !validation.IsValidOfferType(args.offType) ||
		!validation.IsValidQuantity(args.quantity) || !validation.IsValidDiscountRate(args.discount) {
		return errors.New("usage: -cmd create-offer -title <title> -type <free|discount> -qty <n> [-discount <0..100>]")
	}

	discount := args.discount
	if args.offType == model.OfferTypeFree {
		discount = 0
	}

	_, err := a.client.CreateOffer(ctx, api.CreateOfferRequest{
		UserID:       a.mgr.User().ID,
		Title:        args.title,
		Description:  args.title,
		Type:         args.offType,
		Quantity:     args.quantity,
		DiscountRate: discount,
	})
	if err != nil {
		return a.surfacedError(err)
	}

	fmt.Println(a.mgr.T("msg_offer_published", nil))
	return nil
}

func (a *app) verify(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceRestaurant); err != nil {
		return err
	}
	if !validation.IsValidQRCode(args.qrCode) {
		return errors.New("usage: -cmd verify -qr <code>")
	}

	res, err := a.client.VerifyQR(ctx, args.qrCode)
	if err != nil {
		return a.surfacedError(err)
	}

	fmt.Printf("%s: %s\n", a.mgr.T("success", nil), res.Message)
	return nil
}

func (a *app) adminStats(ctx context.Context) error {
	if err := a.requireSurface(navigation.SurfaceAdmin); err != nil {
		return err
	}

	stats, err := a.client.AdminStats(ctx)
	if err != nil {
		a.logger.Errorw("fetch admin stats failed", "error", err)
		stats = &model.AdminStats{}
	}

	fmt.Println(a.mgr.T("admin_stats_title", nil))
	fmt.Printf("  users: %d\n", stats.TotalUsers)
	fmt.Printf("  restaurants: %d\n", stats.TotalRestaurants)
	fmt.Printf("  active offers: %d\n", stats.ActiveOffers)
	fmt.Printf("  claims: %d\n", stats.TotalClaims)
	fmt.Printf("  pending approvals: %d\n", stats.PendingApprovals)
	return nil
}

func (a *app) adminPending(ctx context.Context) error {
	if err := a.requireSurface(navigation.SurfaceAdmin); err != nil {
		return err
	}

	users, err := a.client.AdminPending(ctx)
	if err != nil {
		a.logger.Errorw("fetch pending users failed", "error", err)
		users = nil
	}

	fmt.Println(a.mgr.T("admin_pending_title", nil))
	for _, u := range users {
		fmt.Printf("#%d %s <%s> [%s] %s, %s\n", u.UserID, u.Name, u.Email, u.Type, u.Detail, u.JoinedAt)
	}
	return nil
}

func (a *app) adminApprove(ctx context.Context, args commandArgs) error {
	if err := a.requireSurface(navigation.SurfaceAdmin); err != nil {
		return err
	}
	if args.userID == 0 {
		return errors.New("usage: -cmd admin-approve -user <id>")
	}

	resp, err := a.client.AdminApprove(ctx, args.userID)
	if err != nil {
		return a.surfacedError(err)
	}

	fmt.Printf("%s: %s\n", a.mgr.T("success", nil), resp.Message)
	return nil
}

// surfacedError превращает ошибку мутирующей операции в сообщение для показа:
// текст бэкенда, если он есть, иначе общий переведённый текст.
func (a *app) surfacedError(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	a.logger.Errorw("operation failed", "error", err)
	return errors.New(a.mgr.T("error", nil))
}
