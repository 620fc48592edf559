package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"testing"
	"time"

	"ostro-bazar/internal/domain"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	testDB     *sql.DB
	gunsID     = uuid.New()
	dronesID   = uuid.New()
	missilesID = uuid.New()
)

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(100) UNIQUE NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			price DECIMAL(12, 2) NOT NULL,
			original_price DECIMAL(12, 2),
			category_id UUID NOT NULL REFERENCES categories(id),
			thumbnail VARCHAR(500) NOT NULL DEFAULT '',
			rating DECIMAL(3, 2) NOT NULL DEFAULT 5.0,
			stock INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'admin',
			created_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`INSERT INTO categories (id, name) VALUES ($1, 'Guns'), ($2, 'Drones/UAVs'), ($3, 'Missiles')`,
		gunsID, dronesID, missilesID)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func clearProducts(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec(`DELETE FROM products`); err != nil {
		t.Fatalf("Failed to clear products: %v", err)
	}
}

func makeProduct(categoryID uuid.UUID, title string, price float64) *domain.Product {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Product{
		ID:          uuid.New(),
		Title:       title,
		Price:       price,
		CategoryID:  categoryID,
		Thumbnail:   "/public/placeholder.jpg",
		Rating:      4.5,
		Stock:       10,
		Description: "test product",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndFindPreservesAttributes(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	original := 1500.0
	product := makeProduct(gunsID, "AK-74", 1200.50)
	product.OriginalPrice = &original

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	row, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}

	if row.Title != "AK-74" {
		t.Errorf("Expected title AK-74, got %s", row.Title)
	}
	if row.Price != 1200.50 {
		t.Errorf("Expected price 1200.50, got %f", row.Price)
	}
	if row.OriginalPrice == nil || *row.OriginalPrice != 1500.0 {
		t.Errorf("Expected original price 1500, got %v", row.OriginalPrice)
	}
	if row.Stock != 10 {
		t.Errorf("Expected stock 10, got %d", row.Stock)
	}
	if row.CategoryName != "Guns" {
		t.Errorf("Expected category name Guns, got %s", row.CategoryName)
	}
}

func TestFindByIDUnknownProduct(t *testing.T) {
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestListFiltersByCategoryNameCaseInsensitive(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, makeProduct(gunsID, "AK-74", 1200)); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	if err := repo.Create(ctx, makeProduct(dronesID, "FPV Drone", 850)); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	for _, filter := range []string{"Guns", "guns", "GUNS"} {
		rows, err := repo.List(ctx, filter)
		if err != nil {
			t.Fatalf("Failed to list products: %v", err)
		}
		if len(rows) != 1 || rows[0].Title != "AK-74" {
			t.Errorf("Filter %q: expected only AK-74, got %d rows", filter, len(rows))
		}
	}
}

func TestListAllAndEmptyFilterReturnEverything(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, makeProduct(gunsID, "AK-74", 1200)); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	if err := repo.Create(ctx, makeProduct(missilesID, "Javelin", 78000)); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	for _, filter := range []string{"", "all", "All"} {
		rows, err := repo.List(ctx, filter)
		if err != nil {
			t.Fatalf("Failed to list products: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("Filter %q: expected 2 rows, got %d", filter, len(rows))
		}
	}
}

func TestListOrdersByCreationTime(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	first := makeProduct(gunsID, "First", 10)
	second := makeProduct(gunsID, "Second", 20)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.UpdatedAt = second.CreatedAt

	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	rows, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "First" {
		t.Errorf("Expected creation order, got %v", rows)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := makeProduct(gunsID, "AK-74", 1200)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	product.Title = "AK-74M"
	product.Price = 1350
	product.CategoryID = missilesID
	product.UpdatedAt = time.Now().UTC()

	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("Failed to update product: %v", err)
	}

	row, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if row.Title != "AK-74M" || row.Price != 1350 {
		t.Errorf("Update did not stick: %+v", row)
	}
	if row.CategoryName != "Missiles" {
		t.Errorf("Expected reassigned category, got %s", row.CategoryName)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	repo := NewProductRepository(testDB)

	product := makeProduct(gunsID, "Ghost", 1)
	err := repo.Update(context.Background(), product)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateStockOnlyTouchesStock(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := makeProduct(gunsID, "AK-74", 1200)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if err := repo.UpdateStock(ctx, product.ID, 3); err != nil {
		t.Fatalf("Failed to update stock: %v", err)
	}

	row, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("Failed to find product: %v", err)
	}
	if row.Stock != 3 {
		t.Errorf("Expected stock 3, got %d", row.Stock)
	}
	if row.Title != "AK-74" || row.Price != 1200 {
		t.Errorf("Stock update must not touch other fields: %+v", row)
	}
}

func TestDeleteRemovesProduct(t *testing.T) {
	clearProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := makeProduct(gunsID, "AK-74", 1200)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Failed to delete product: %v", err)
	}

	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Deleting twice must report not found, got %v", err)
	}
}

func TestAdminRepositoryRoundTrip(t *testing.T) {
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	admin := &domain.Admin{
		ID:           uuid.New(),
		Email:        "ops@ostrobazar.local",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "ops@ostrobazar.local")
	if err != nil {
		t.Fatalf("Failed to find admin: %v", err)
	}
	if found.PasswordHash != admin.PasswordHash {
		t.Error("Password hash must round trip unchanged")
	}
	if found.Role != "admin" {
		t.Errorf("Expected role admin, got %s", found.Role)
	}
}

func TestFindAdminByUnknownEmail(t *testing.T) {
	repo := NewAdminRepository(testDB)

	_, err := repo.FindByEmail(context.Background(), "ghost@ostrobazar.local")
	if !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("Expected ErrAdminNotFound, got %v", err)
	}
}
