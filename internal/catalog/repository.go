package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/gmcandra/mebel-api/internal/database"
)

// Repository handles category and product persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateCategory inserts a new category
func (r *Repository) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	dbCategory := &database.Category{Name: in.Name}

	_, err := r.db.NewInsert().
		Model(dbCategory).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return mapDBCategoryToModel(dbCategory), nil
}

// ListCategories returns all categories
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	var dbCategories []database.Category
	err := r.db.NewSelect().
		Model(&dbCategories).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]Category, len(dbCategories))
	for i := range dbCategories {
		categories[i] = *mapDBCategoryToModel(&dbCategories[i])
	}
	return categories, nil
}

// GetCategoryByID returns a category with its products
func (r *Repository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	dbCategory := new(database.Category)
	err := r.db.NewSelect().
		Model(dbCategory).
		Relation("Products").
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return mapDBCategoryToModel(dbCategory), nil
}

// UpdateCategory renames a category
func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*Category, error) {
	result, err := r.db.NewUpdate().
		Model((*database.Category)(nil)).
		Set("name = ?", in.Name).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrCategoryNotFound
	}

	return r.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a category. Deletion is rejected while products
// still reference the category.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*database.Product)(nil)).
			Where("category_id = ?", id).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count category products: %w", err)
		}
		if count > 0 {
			return ErrCategoryNotEmpty
		}

		result, err := tx.NewDelete().
			Model((*database.Category)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrCategoryNotFound
		}

		return nil
	})
}

// CreateProduct inserts a new product
func (r *Repository) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	dbProduct := &database.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
	}

	_, err := r.db.NewInsert().
		Model(dbProduct).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return mapDBProductToModel(dbProduct), nil
}

// ListProducts returns all products, optionally filtered by category
func (r *Repository) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]Product, error) {
	var dbProducts []database.Product
	q := r.db.NewSelect().
		Model(&dbProducts).
		Order("created_at DESC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]Product, len(dbProducts))
	for i := range dbProducts {
		products[i] = *mapDBProductToModel(&dbProducts[i])
	}
	return products, nil
}

// GetProductByID returns a single product
func (r *Repository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	dbProduct := new(database.Product)
	err := r.db.NewSelect().
		Model(dbProduct).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return mapDBProductToModel(dbProduct), nil
}

// GetProductsByIDs batch-loads products for order validation
func (r *Repository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dbProducts []database.Product
	err := r.db.NewSelect().
		Model(&dbProducts).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load products: %w", err)
	}

	products := make([]Product, len(dbProducts))
	for i := range dbProducts {
		products[i] = *mapDBProductToModel(&dbProducts[i])
	}
	return products, nil
}

// UpdateProduct applies a partial update
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductUpdate) (*Product, error) {
	q := r.db.NewUpdate().
		Model((*database.Product)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	if in.Name != nil {
		q = q.Set("name = ?", *in.Name)
	}
	if in.Description != nil {
		q = q.Set("description = ?", *in.Description)
	}
	if in.Price != nil {
		q = q.Set("price = ?", *in.Price)
	}
	if in.Quantity != nil {
		q = q.Set("quantity = ?", *in.Quantity)
	}
	if in.Image != nil {
		q = q.Set("image = ?", *in.Image)
	}
	if in.CategoryID != nil {
		q = q.Set("category_id = ?", *in.CategoryID)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetProductByID(ctx, id)
}

// DeleteProduct removes a product
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func mapDBCategoryToModel(dbc *database.Category) *Category {
	c := &Category{
		ID:        dbc.ID,
		Name:      dbc.Name,
		CreatedAt: dbc.CreatedAt,
		UpdatedAt: dbc.UpdatedAt,
	}
	for _, p := range dbc.Products {
		c.Products = append(c.Products, *mapDBProductToModel(p))
	}
	return c
}

func mapDBProductToModel(dbp *database.Product) *Product {
	return &Product{
		ID:          dbp.ID,
		Name:        dbp.Name,
		Description: dbp.Description,
		Price:       dbp.Price,
		Quantity:    dbp.Quantity,
		Image:       dbp.Image,
		CategoryID:  dbp.CategoryID,
		CreatedAt:   dbp.CreatedAt,
		UpdatedAt:   dbp.UpdatedAt,
	}
}
