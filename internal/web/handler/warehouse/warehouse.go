// Package warehouse handles the product and stock movement endpoints.
package warehouse

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizdesk/bizdesk/internal/auth"
	"github.com/bizdesk/bizdesk/internal/config"
	"github.com/bizdesk/bizdesk/internal/db/controller/activity"
	"github.com/bizdesk/bizdesk/internal/db/controller/product"
	"github.com/bizdesk/bizdesk/internal/db/models"
	"github.com/bizdesk/bizdesk/internal/tenant"
	"github.com/bizdesk/bizdesk/internal/web/handler"
)

// Path is the base path of the warehouse endpoints.
const Path = handler.APIPath + "/warehouse"

// Service provides the warehouse endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type productRequest struct {
	SKU       string          `json:"sku" validate:"required,max=100"`
	Name      string          `json:"name" validate:"required,max=255"`
	Category  string          `json:"category" validate:"omitempty,max=100"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock" validate:"gte=0"`
}

type movementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Kind      string `json:"kind" validate:"required,oneof=import export"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Note      string `json:"note" validate:"omitempty,max=255"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get("/products",
			auth.RequireModule(auth.ModuleWarehouse),
			auth.RequireTab(auth.ModuleWarehouse, auth.TabInventory),
			s.ListProducts,
		)
		router.Post("/products",
			auth.RequireLevel(auth.ModuleWarehouse, auth.LevelFull),
			auth.RequireTab(auth.ModuleWarehouse, auth.TabInventory),
			s.CreateProduct,
		)
		router.Patch("/products/:id",
			auth.RequireLevel(auth.ModuleWarehouse, auth.LevelFull),
			auth.RequireTab(auth.ModuleWarehouse, auth.TabInventory),
			s.UpdateProduct,
		)
		router.Delete("/products/:id",
			auth.RequireLevel(auth.ModuleWarehouse, auth.LevelFull),
			auth.RequireTab(auth.ModuleWarehouse, auth.TabInventory),
			s.DeleteProduct,
		)
		router.Get("/movements",
			auth.RequireModule(auth.ModuleWarehouse),
			s.ListMovements,
		)
		router.Post("/movements",
			auth.RequireLevel(auth.ModuleWarehouse, auth.LevelFull),
			s.CreateMovement,
		)
	})

	return nil
}

// ListProducts returns every product of the tenant.
func (s *Service) ListProducts(c *fiber.Ctx) error {
	products, err := product.List(s.db, tenant.FromCtx(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(products)
}

// CreateProduct creates a product.
func (s *Service) CreateProduct(c *fiber.Ctx) error {
	in := new(productRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	tenantID := tenant.FromCtx(c)

	p := &models.Product{
		TenantID:  tenantID,
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		UnitPrice: in.UnitPrice,
		Stock:     in.Stock,
		CreatedBy: principal.DisplayName,
	}

	if err := product.Create(s.db, p); err != nil {
		if errors.Is(err, product.ErrSKUExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to create product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleWarehouse, "create", p.ID, p.SKU)

	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProduct applies field updates to a product.
func (s *Service) UpdateProduct(c *fiber.Ctx) error {
	in := new(productRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	updates := map[string]interface{}{
		"sku":        in.SKU,
		"name":       in.Name,
		"category":   in.Category,
		"unit_price": in.UnitPrice,
	}

	if err := product.Update(s.db, tenantID, id, updates); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to update product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleWarehouse, "update", id, in.SKU)

	return c.JSON(fiber.Map{"status": "updated"})
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(c *fiber.Ctx) error {
	tenantID := tenant.FromCtx(c)
	id := c.Params("id")

	if err := product.Delete(s.db, tenantID, id); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("failed to delete product")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	activity.Record(s.db, tenantID, auth.PrincipalFromCtx(c).DisplayName, auth.ModuleWarehouse, "delete", id, "")

	return c.JSON(fiber.Map{"status": "deleted"})
}

// ListMovements returns recent stock movements, optionally filtered by kind.
// The kind filter is gated by the matching tab.
func (s *Service) ListMovements(c *fiber.Ctx) error {
	principal := auth.PrincipalFromCtx(c)
	kind := models.MovementKind(c.Query("kind"))

	if kind != "" && !auth.CanAccessTab(principal, auth.ModuleWarehouse, tabForKind(kind)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	movements, err := product.ListMovements(s.db, tenant.FromCtx(c), kind)
	if err != nil {
		log.Error().Err(err).Msg("failed to list movements")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(movements)
}

// CreateMovement books a stock movement. Import and export are separate
// tabs; the allow-list of the principal decides per kind.
func (s *Service) CreateMovement(c *fiber.Ctx) error {
	in := new(movementRequest)
	if err := c.BodyParser(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	principal := auth.PrincipalFromCtx(c)
	kind := models.MovementKind(in.Kind)

	if !auth.CanAccessTab(principal, auth.ModuleWarehouse, tabForKind(kind)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	tenantID := tenant.FromCtx(c)

	movement := &models.StockMovement{
		TenantID:  tenantID,
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Note:      in.Note,
		CreatedBy: principal.DisplayName,
	}

	if err := product.ApplyMovement(s.db, movement); err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, product.ErrInsufficientStock), errors.Is(err, product.ErrInvalidQuantity):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Error().Err(err).Msg("failed to apply movement")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
	}

	activity.Record(s.db, tenantID, principal.DisplayName, auth.ModuleWarehouse, string(kind), movement.ID, in.Note)

	return c.Status(fiber.StatusCreated).JSON(movement)
}

func tabForKind(kind models.MovementKind) string {
	if kind == models.MovementExport {
		return auth.TabExport
	}

	return auth.TabImport
}
