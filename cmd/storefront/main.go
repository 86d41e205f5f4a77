// cmd/storefront/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nexuscatalog/storefront-go/internal/admin"
	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/catalog"
	"github.com/nexuscatalog/storefront-go/internal/config"
	"github.com/nexuscatalog/storefront-go/internal/models"
	"github.com/nexuscatalog/storefront-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	session := store.NewSession(cfg.State.Dir)
	client := api.New(cfg.API.BaseURL,
		api.WithTokenProvider(session),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	)
	entityCache := cache.New(cache.WithAuthErrorHook(func(err error) {
		logrus.WithError(err).Warn("Session expired, logging out")
		session.Logout()
	}))
	defer entityCache.Close()

	prefs := store.NewPrefs()
	cart := store.NewCart()
	catalogView := catalog.NewView(client, entityCache, prefs, cfg.Catalog.PageSize)
	adminView := admin.NewView(client, entityCache, session)

	app := &app{
		session: session,
		cart:    cart,
		catalog: catalogView,
		admin:   adminView,
	}
	app.run()
}

type app struct {
	session *store.Session
	cart    *store.Cart
	catalog *catalog.View
	admin   *admin.View
}

func (a *app) run() {
	ctx := context.Background()
	fmt.Println("storefront - type 'help' for commands")
	a.showPage(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		a.dispatch(ctx, fields)
	}
}

func (a *app) dispatch(ctx context.Context, fields []string) {
	switch fields[0] {
	case "help":
		fmt.Println(`commands:
  list                     show current catalog page
  next | prev | page N     move between pages
  sort KEY                 -created_at price -price -average_rating name
  filter [cat=SLUG] [min=N] [max=N]
  search TERM              (empty TERM clears the search)
  clear                    clear all filters
  cats                     category sidebar
  show ID                  product detail with reviews
  review ID RATING NAME COMMENT...
  cart | add ID [QTY] | setqty ID QTY | rm ID | empty
  login USER PASS | signup | logout | whoami
  create NAME PRICE STOCK CATEGORY_ID DESCRIPTION...
  setprice ID PRICE | setstock ID N`)
	case "list":
		a.showPage(ctx)
	case "next":
		a.catalog.NextPage()
		a.showPage(ctx)
	case "prev":
		a.catalog.PrevPage()
		a.showPage(ctx)
	case "page":
		if n, err := strconv.Atoi(arg(fields, 1)); err == nil {
			a.catalog.GoToPage(n)
		}
		a.showPage(ctx)
	case "sort":
		a.catalog.SetSort(api.SortKey(arg(fields, 1)))
		a.showPage(ctx)
	case "filter":
		a.catalog.ApplyFilters(parseFilters(fields[1:]))
		a.showPage(ctx)
	case "search":
		a.catalog.SetSearch(strings.Join(fields[1:], " "))
		a.showPage(ctx)
	case "clear":
		a.catalog.ClearFilters()
		a.showPage(ctx)
	case "cats":
		a.showCategories(ctx)
	case "show":
		a.showProduct(ctx, arg(fields, 1))
	case "review":
		a.submitReview(ctx, fields[1:])
	case "cart":
		a.showCart()
	case "add":
		a.addToCart(ctx, fields[1:])
	case "setqty":
		id, _ := strconv.Atoi(arg(fields, 1))
		qty, _ := strconv.Atoi(arg(fields, 2))
		a.cart.SetQuantity(id, qty)
		a.showCart()
	case "rm":
		id, _ := strconv.Atoi(arg(fields, 1))
		a.cart.Remove(id)
		a.showCart()
	case "empty":
		a.cart.Clear()
		a.showCart()
	case "login":
		err := a.admin.Login(ctx, admin.LoginForm{Username: arg(fields, 1), Password: arg(fields, 2)})
		if err != nil {
			fmt.Println("login failed:", err)
			return
		}
		fmt.Println("logged in as", a.session.Username())
	case "signup":
		result, err := a.admin.Signup(ctx)
		if err != nil {
			fmt.Println("signup failed:", err)
			return
		}
		fmt.Printf("credentials: %s / %s\n", result.Username, result.Password)
	case "logout":
		a.admin.Logout()
		fmt.Println("logged out")
	case "whoami":
		if a.session.Authenticated() {
			fmt.Println(a.session.Username())
		} else {
			fmt.Println("anonymous")
		}
	case "create":
		a.createProduct(ctx, fields[1:])
	case "setprice":
		a.patchProduct(ctx, fields, func(p *models.ProductUpdate, v float64) {
			price := models.Decimal(v)
			p.Price = &price
		})
	case "setstock":
		a.patchProduct(ctx, fields, func(p *models.ProductUpdate, v float64) {
			stock := int(v)
			p.StockQuantity = &stock
		})
	default:
		fmt.Println("unknown command; try 'help'")
	}
}

func (a *app) showPage(ctx context.Context) {
	page, err := a.catalog.Load(ctx)
	if err != nil {
		fmt.Println("error loading catalog:", err)
		fmt.Println("type 'list' to try again")
		return
	}
	if page.Empty {
		fmt.Println("No products found. 'clear' resets all filters.")
		return
	}
	fmt.Printf("Product Catalog (%d items)\n", page.TotalCount)
	for _, p := range page.Products {
		fmt.Printf("  [%3d] %-40s $%8.2f  stock=%-4d rating=%.1f  %s\n",
			p.ID, p.Name, float64(p.Price), p.StockQuantity, p.AverageRating, p.CategoryTitle)
	}
	if page.ShowPagination {
		parts := make([]string, 0, len(page.PageStrip))
		for _, n := range page.PageStrip {
			switch {
			case n == catalog.Ellipsis:
				parts = append(parts, "...")
			case n == page.CurrentPage:
				parts = append(parts, fmt.Sprintf("[%d]", n))
			default:
				parts = append(parts, strconv.Itoa(n))
			}
		}
		fmt.Printf("page %d/%d: %s\n", page.CurrentPage, page.TotalPages, strings.Join(parts, " "))
	}
}

func (a *app) showCategories(ctx context.Context) {
	groups, err := a.catalog.CategoryGroups(ctx)
	if err != nil {
		fmt.Println("error loading categories:", err)
		return
	}
	fmt.Println("  All Products")
	for _, group := range groups {
		fmt.Println(group.Letter)
		for _, c := range group.Categories {
			fmt.Printf("  %s (%s)\n", c.Title, c.Slug)
		}
	}
}

func (a *app) showProduct(ctx context.Context, idArg string) {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		fmt.Println("usage: show ID")
		return
	}
	p, err := a.catalog.Product(ctx, id)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s  $%.2f (stock %d, rating %.1f)\n%s\n", p.Name, float64(p.Price), p.StockQuantity, p.AverageRating, p.Description)
	for _, r := range p.Reviews {
		fmt.Printf("  %d/5 %s: %s\n", r.Rating, r.Name, r.Comment)
	}
}

func (a *app) submitReview(ctx context.Context, args []string) {
	if len(args) < 4 {
		fmt.Println("usage: review ID RATING NAME COMMENT...")
		return
	}
	id, _ := strconv.Atoi(args[0])
	rating, _ := strconv.Atoi(args[1])
	_, err := a.catalog.SubmitReview(ctx, id, models.ReviewCreate{
		Name:    args[2],
		Rating:  rating,
		Comment: strings.Join(args[3:], " "),
	})
	if err != nil {
		fmt.Println("review rejected:", err)
		return
	}
	fmt.Println("review submitted")
}

func (a *app) showCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, item := range items {
		fmt.Printf("  %dx %-40s $%8.2f\n", item.Quantity, item.Product.Name, float64(item.Product.Price)*float64(item.Quantity))
	}
	fmt.Printf("%d items, total $%.2f\n", a.cart.ItemCount(), a.cart.TotalPrice())
}

func (a *app) addToCart(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: add ID [QTY]")
		return
	}
	id, _ := strconv.Atoi(args[0])
	qty := 1
	if len(args) > 1 {
		qty, _ = strconv.Atoi(args[1])
	}
	product, err := a.catalog.Product(ctx, id)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	a.cart.Add(*product, qty)
	a.showCart()
}

func (a *app) createProduct(ctx context.Context, args []string) {
	if len(args) < 5 {
		fmt.Println("usage: create NAME PRICE STOCK CATEGORY_ID DESCRIPTION...")
		return
	}
	price, _ := strconv.ParseFloat(args[1], 64)
	stock, _ := strconv.Atoi(args[2])
	categoryID, _ := strconv.Atoi(args[3])
	product, err := a.admin.CreateProduct(ctx, models.ProductCreate{
		Name:          args[0],
		Description:   strings.Join(args[4:], " "),
		Price:         models.Decimal(price),
		StockQuantity: stock,
		Category:      categoryID,
		IsAvailable:   true,
	})
	if err != nil {
		fmt.Println("create failed:", err)
		return
	}
	fmt.Printf("created product %d\n", product.ID)
}

func (a *app) patchProduct(ctx context.Context, fields []string, set func(*models.ProductUpdate, float64)) {
	id, err := strconv.Atoi(arg(fields, 1))
	if err != nil {
		fmt.Println("usage:", fields[0], "ID VALUE")
		return
	}
	value, err := strconv.ParseFloat(arg(fields, 2), 64)
	if err != nil {
		fmt.Println("usage:", fields[0], "ID VALUE")
		return
	}
	var patch models.ProductUpdate
	set(&patch, value)
	if _, err := a.admin.UpdateProduct(ctx, id, patch); err != nil {
		fmt.Println("update failed:", err)
		return
	}
	fmt.Println("updated")
}

func parseFilters(args []string) api.Filters {
	var filters api.Filters
	for _, raw := range args {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			continue
		}
		switch key {
		case "cat":
			filters.CategorySlug = value
		case "min":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				filters.MinPrice = &f
			}
		case "max":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				filters.MaxPrice = &f
			}
		}
	}
	return filters
}

func arg(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
