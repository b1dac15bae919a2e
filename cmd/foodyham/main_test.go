package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodyham/internal/api"
	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/auth"
)

// setupEnv points the CLI at a fresh stub collaborator and a file-backed
// profile in a temp dir, so every run behaves like a separate process
func setupEnv(t *testing.T) {
	t.Helper()
	repo := api.NewRepository()
	require.NoError(t, repo.Seed("password123"))
	jwtService := auth.NewJWTService("cli-test-secret", time.Hour)
	srv := httptest.NewServer(api.NewRouter(
		api.NewHandlers(repo, nil, nil),
		api.NewAuthHandlers(repo, jwtService),
		jwtService,
		nil,
	))
	t.Cleanup(srv.Close)

	t.Setenv("FOODYHAM_API_URL", srv.URL+"/api")
	t.Setenv("FOODYHAM_STORAGE", "file")
	t.Setenv("FOODYHAM_STATE_DIR", t.TempDir())
	t.Setenv("FOODYHAM_PROFILE", "cli-test")
	t.Setenv("KAFKA_BROKERS", "")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := &cli{out: &out, in: strings.NewReader(stdin)}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, c.teardown())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// ============================================
// Session Command Tests
// ============================================

func TestCLI_LoginPersistsAcrossRuns(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "login", "-e", "user@foodyham.com", "-p", "password123")
	assert.Contains(t, out, "Signed in as Demo User")

	out = mustRun(t, "whoami")
	assert.Contains(t, out, "user@foodyham.com")
	assert.Contains(t, out, "42 Market Street")

	mustRun(t, "logout")
	out = mustRun(t, "whoami")
	assert.Contains(t, out, "Not signed in")
}

func TestCLI_LoginPromptsForPassword(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "password123\n", "login", "-e", "admin@foodyham.com")

	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Signed in as Admin User")
}

func TestCLI_LoginValidation(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "login", "-e", "not-an-email", "-p", "password123")

	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Please enter a valid email address", apperror.Message(err))
}

func TestCLI_PasswordMismatch(t *testing.T) {
	setupEnv(t)
	mustRun(t, "login", "-e", "user@foodyham.com", "-p", "password123")

	_, err := run(t, "", "password", "--current", "password123", "--new", "secret1", "--confirm", "secret2")

	assert.Equal(t, "New passwords do not match", apperror.Message(err))
}

// ============================================
// Cart and Checkout Command Tests
// ============================================

func TestCLI_CartAndCheckout(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "checkout")
	assert.Equal(t, "Please login to checkout", apperror.Message(err))

	mustRun(t, "cart", "add", "1", "-q", "2")
	mustRun(t, "cart", "add", "3")
	out := mustRun(t, "cart", "list")
	assert.Contains(t, out, "Classic Cheeseburger")
	assert.Contains(t, out, "3 item(s), total $33.97")

	out = mustRun(t, "checkout", "--quote")
	assert.Contains(t, out, "Tax (8%):     $2.72")
	assert.Contains(t, out, "Total:        $41.69")

	mustRun(t, "login", "-e", "user@foodyham.com", "-p", "password123")
	out = mustRun(t, "checkout")
	assert.Contains(t, out, "placed (pending)")
	assert.Contains(t, out, "Delivering to: 42 Market Street")

	out = mustRun(t, "cart")
	assert.Contains(t, out, "Your cart is empty")
}

func TestCLI_CartSetAndRemove(t *testing.T) {
	setupEnv(t)
	mustRun(t, "cart", "add", "2")

	out := mustRun(t, "cart", "set", "2", "4")
	assert.Contains(t, out, "4 item(s), total $59.96")

	out = mustRun(t, "cart", "set", "2", "0")
	assert.Contains(t, out, "Your cart is empty")

	_, err := run(t, "", "cart", "add", "2", "-q", "0")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = run(t, "", "cart", "add", "999")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCLI_Products(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "products", "list", "--sort", "price")
	assert.Less(t, strings.Index(out, "Caesar Salad"), strings.Index(out, "Margherita Pizza"))

	out = mustRun(t, "menu", "show", "2")
	assert.Contains(t, out, "Margherita Pizza  ($14.99)")
	assert.Contains(t, out, "Ingredients: dough, tomato sauce, mozzarella, basil")
}

// ============================================
// Admin Command Tests
// ============================================

func TestCLI_AdminRequiresAdmin(t *testing.T) {
	setupEnv(t)
	mustRun(t, "login", "-e", "user@foodyham.com", "-p", "password123")

	_, err := run(t, "", "admin", "analytics")

	assert.ErrorIs(t, err, apperror.ErrAuthorization)
}

func TestCLI_AdminProductsAndAnalytics(t *testing.T) {
	setupEnv(t)
	mustRun(t, "login", "-e", "admin@foodyham.com", "-p", "password123")

	out := mustRun(t, "admin", "products", "create", "--name", "Loaded Fries", "--price", "4.5", "--category", "sides", "--featured")
	assert.Contains(t, out, "Loaded Fries  ($4.50)")
	assert.Contains(t, out, "Featured: yes")

	out = mustRun(t, "products", "list", "--category", "sides")
	assert.Contains(t, out, "Loaded Fries ★")

	_, err := run(t, "", "admin", "analytics", "--period", "14")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	out = mustRun(t, "admin", "analytics", "--period", "7")
	assert.Contains(t, out, "Sales, last 7 days")
	assert.Contains(t, out, "New customers:       2")
}

func TestCLI_Feedback(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "feedback", "-r", "5", "-m", "Lovely pizza")
	assert.Contains(t, out, "Thank you!")

	_, err := run(t, "", "feedback", "-r", "5")
	assert.Equal(t, "Please provide a rating and a comment.", apperror.Message(err))
}

func TestCLI_EventsTailNeedsKafka(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "events", "tail")

	assert.EqualError(t, err, "KAFKA_BROKERS is not set")
}
