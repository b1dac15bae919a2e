package api

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/foodyham/internal/auth"
	"github.com/example/foodyham/internal/domain/feedback"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/money"
	"github.com/example/foodyham/internal/domain/order"
	"github.com/example/foodyham/internal/domain/product"
	"github.com/example/foodyham/internal/domain/user"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
)

// account is a stored user with its password hash
type account struct {
	identity     user.Identity
	passwordHash string
	createdAt    time.Time
}

// Repository is the in-memory backing store of the stub collaborator
type Repository struct {
	mu       sync.RWMutex
	accounts map[ident.ID]*account
	byEmail  map[string]ident.ID
	products []product.Product
	orders   []order.Order
	feedback []feedback.Feedback
}

func NewRepository() *Repository {
	return &Repository{
		accounts: make(map[ident.ID]*account),
		byEmail:  make(map[string]ident.ID),
	}
}

// DefaultMenu is the catalog a fresh stub serves
func DefaultMenu() []product.Product {
	return []product.Product{
		{
			ID:              "1",
			Name:            "Classic Cheeseburger",
			Description:     "Juicy beef patty with melted cheese",
			Price:           11.99,
			Category:        "burgers",
			Ingredients:     []string{"beef patty", "cheddar", "lettuce", "tomato", "brioche bun"},
			FullDescription: "A quarter-pound beef patty grilled to order, topped with melted cheddar on a toasted brioche bun.",
			NutritionalInfo: &product.NutritionalInfo{Calories: 750, Protein: "38g", Carbs: "45g", Fat: "42g"},
			IsFeatured:      true,
		},
		{
			ID:              "2",
			Name:            "Margherita Pizza",
			Description:     "Fresh mozzarella, tomato and basil",
			Price:           14.99,
			Category:        "pizza",
			Ingredients:     []string{"dough", "tomato sauce", "mozzarella", "basil"},
			FullDescription: "Stone-baked thin crust with San Marzano tomato sauce, fresh mozzarella and basil.",
			NutritionalInfo: &product.NutritionalInfo{Calories: 850, Protein: "35g", Carbs: "98g", Fat: "32g"},
			IsFeatured:      true,
		},
		{
			ID:              "3",
			Name:            "Caesar Salad",
			Description:     "Crisp romaine with parmesan and croutons",
			Price:           9.99,
			Category:        "salads",
			Ingredients:     []string{"romaine", "parmesan", "croutons", "caesar dressing"},
			FullDescription: "Crisp romaine hearts tossed in house caesar dressing with shaved parmesan and garlic croutons.",
			NutritionalInfo: &product.NutritionalInfo{Calories: 420, Protein: "12g", Carbs: "22g", Fat: "31g"},
		},
	}
}

// Seed loads the default menu and the demo accounts
func (r *Repository) Seed(password string) error {
	r.mu.Lock()
	r.products = DefaultMenu()
	r.mu.Unlock()

	demo := []user.Identity{
		{Name: "Admin User", Email: "admin@foodyham.com", Role: user.RoleAdmin},
		{Name: "Demo User", Email: "user@foodyham.com", Role: user.RoleUser, Address: "42 Market Street"},
	}
	for _, identity := range demo {
		if _, err := r.CreateUser(identity, password); err != nil && !errors.Is(err, ErrEmailTaken) {
			return err
		}
	}
	return nil
}

// CreateUser stores a new account; the role defaults to user
func (r *Repository) CreateUser(identity user.Identity, password string) (user.Identity, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return user.Identity{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(identity.Email)
	if _, exists := r.byEmail[email]; exists {
		return user.Identity{}, ErrEmailTaken
	}
	if identity.ID.IsZero() {
		identity.ID = ident.ID(uuid.NewString())
	}
	if identity.Role == "" {
		identity.Role = user.RoleUser
	}
	identity.Email = email
	identity = identity.WithDerived()

	r.accounts[identity.ID] = &account{identity: identity, passwordHash: hash, createdAt: time.Now()}
	r.byEmail[email] = identity.ID
	return identity, nil
}

// Authenticate returns the identity for matching credentials
func (r *Repository) Authenticate(email, password string) (user.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return user.Identity{}, false
	}
	acct := r.accounts[id]
	if !auth.CheckPassword(password, acct.passwordHash) {
		return user.Identity{}, false
	}
	return acct.identity, true
}

func (r *Repository) User(id ident.ID) (user.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[id]
	if !ok {
		return user.Identity{}, false
	}
	return acct.identity, true
}

// UpdateProfile applies patch to the account
func (r *Repository) UpdateProfile(id ident.ID, patch user.ProfilePatch) (user.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return user.Identity{}, ErrUserNotFound
	}
	if patch.Email != "" {
		email := normalizeEmail(patch.Email)
		if owner, exists := r.byEmail[email]; exists && owner != id {
			return user.Identity{}, ErrEmailTaken
		}
		delete(r.byEmail, acct.identity.Email)
		r.byEmail[email] = id
		patch.Email = email
	}
	acct.identity = patch.Merge(acct.identity).WithDerived()
	return acct.identity, nil
}

// ChangePassword replaces the hash when current matches
func (r *Repository) ChangePassword(id ident.ID, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return false, ErrUserNotFound
	}
	if !auth.CheckPassword(current, acct.passwordHash) {
		return false, nil
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return false, err
	}
	acct.passwordHash = hash
	return true, nil
}

// ListProducts filters by category and a case-insensitive search over name
// and description, then sorts and limits
func (r *Repository) ListProducts(q product.Query) []product.Product {
	r.mu.RLock()
	out := make([]product.Product, 0, len(r.products))
	search := strings.ToLower(q.Search)
	for _, p := range r.products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	switch q.Sort {
	case "price":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "-price":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "featured":
		sort.SliceStable(out, func(i, j int) bool { return out[i].IsFeatured && !out[j].IsFeatured })
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (r *Repository) Product(id ident.ID) (product.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

func (r *Repository) CreateProduct(p product.Product) product.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = ident.ID(uuid.NewString())
	r.products = append(r.products, p)
	return p
}

func (r *Repository) UpdateProduct(id ident.ID, patch product.Patch) (product.Product, error) {
	return r.mutateProduct(id, func(p product.Product) product.Product {
		return patch.Apply(p)
	})
}

func (r *Repository) SetFeatured(id ident.ID, featured bool) (product.Product, error) {
	return r.mutateProduct(id, func(p product.Product) product.Product {
		p.IsFeatured = featured
		return p
	})
}

func (r *Repository) mutateProduct(id ident.ID, fn func(product.Product) product.Product) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i] = fn(r.products[i])
			return r.products[i], nil
		}
	}
	return product.Product{}, ErrProductNotFound
}

func (r *Repository) DeleteProduct(id ident.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// CreateOrder stores a pending order for userID
func (r *Repository) CreateOrder(userID ident.ID, req order.Request) order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := order.Order{
		ID:              ident.ID(uuid.NewString()),
		UserID:          userID,
		Items:           req.Items,
		TotalAmount:     money.Amount(req.TotalAmount),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          "pending",
		CreatedAt:       time.Now().UTC(),
	}
	r.orders = append(r.orders, o)
	return o
}

// OrdersFor returns the orders placed by userID, newest first
func (r *Repository) OrdersFor(userID ident.ID) []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0)
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out
}

func (r *Repository) AddFeedback(f feedback.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, f)
}

func (r *Repository) FeedbackCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.feedback)
}

// SalesAnalytics aggregates orders and sign-ups from the last periodDays
func (r *Repository) SalesAnalytics(periodDays int, now time.Time) order.SalesAnalytics {
	since := now.AddDate(0, 0, -periodDays)

	r.mu.RLock()
	defer r.mu.RUnlock()

	report := order.SalesAnalytics{
		TopProducts:    []order.ProductSales{},
		PaymentMethods: []order.PaymentCount{},
		DailySales:     []order.DailySales{},
	}
	products := map[ident.ID]*order.ProductSales{}
	methods := map[string]int{}
	days := map[string]*order.DailySales{}

	for _, o := range r.orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		report.TotalOrders++
		report.TotalSales += o.TotalAmount.Float64()
		methods[o.PaymentMethod]++

		day := o.CreatedAt.Format("2006-01-02")
		if days[day] == nil {
			days[day] = &order.DailySales{Day: day}
		}
		days[day].Orders++
		days[day].Sales += o.TotalAmount.Float64()

		for _, item := range o.Items {
			if products[item.Product] == nil {
				products[item.Product] = &order.ProductSales{ID: item.Product, Name: item.Name}
			}
			products[item.Product].TotalSold += item.Quantity
			products[item.Product].Revenue += item.Price.Float64() * float64(item.Quantity)
		}
	}
	for _, acct := range r.accounts {
		if !acct.createdAt.Before(since) {
			report.NewUsers++
		}
	}

	for _, p := range products {
		p.Revenue = money.Round2(p.Revenue)
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		if report.TopProducts[i].TotalSold != report.TopProducts[j].TotalSold {
			return report.TopProducts[i].TotalSold > report.TopProducts[j].TotalSold
		}
		return report.TopProducts[i].Name < report.TopProducts[j].Name
	})
	if len(report.TopProducts) > 5 {
		report.TopProducts = report.TopProducts[:5]
	}

	for method, count := range methods {
		report.PaymentMethods = append(report.PaymentMethods, order.PaymentCount{Method: method, Count: count})
	}
	sort.Slice(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].Count > report.PaymentMethods[j].Count ||
			(report.PaymentMethods[i].Count == report.PaymentMethods[j].Count && report.PaymentMethods[i].Method < report.PaymentMethods[j].Method)
	})

	for _, d := range days {
		d.Sales = money.Round2(d.Sales)
		report.DailySales = append(report.DailySales, *d)
	}
	sort.Slice(report.DailySales, func(i, j int) bool { return report.DailySales[i].Day < report.DailySales[j].Day })

	report.TotalSales = money.Round2(report.TotalSales)
	return report
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
