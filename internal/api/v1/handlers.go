package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/middleware"
)

// Pong is the ping endpoint response body
type Pong struct {
	Ping string `json:"ping"`
}

// PlanResponse is the public plan catalog entry. It deliberately exposes the
// stored price so the pricing page and the checkout flow can never disagree.
type PlanResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Currency string   `json:"currency"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

// CallResponse is the JSON shape of a call in the feed
type CallResponse struct {
	UUID     string  `json:"uuid"`
	Expert   string  `json:"expert,omitempty"`
	BetType  string  `json:"bet_type"`
	Matchup  string  `json:"matchup"`
	Odds     string  `json:"odds"`
	Pick     string  `json:"pick"`
	Units    float64 `json:"units"`
	Analysis string  `json:"analysis,omitempty"`
	Status   string  `json:"status"`
}

// APIServer implements the v1 endpoints
type APIServer struct {
	repos *repository.Repositories
}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{
		repos: repository.GetGlobalRepositories(),
	}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPlans returns the active plan catalog
func (s *APIServer) GetPlans(c *fiber.Ctx) error {
	plans, err := s.repos.Plan.GetActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load plans",
		})
	}

	out := make([]PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = PlanResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Currency: p.Currency,
			Interval: p.Interval,
			Features: p.Features(),
		}
	}

	return c.JSON(fiber.Map{"plans": out})
}

// GetCalls returns the calls feed for the authenticated session. Entitlement
// is checked by middleware on the route, same rules as the HTML feed.
func (s *APIServer) GetCalls(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := 20

	calls, err := s.repos.Call.List((page-1)*perPage, perPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load calls",
		})
	}

	out := make([]CallResponse, len(calls))
	for i := range calls {
		out[i] = toCallResponse(&calls[i])
	}

	return c.JSON(fiber.Map{"calls": out, "page": page})
}

// GetCall returns a single call by UUID
func (s *APIServer) GetCall(c *fiber.Ctx) error {
	call, err := s.repos.Call.GetByUUID(c.Params("uuid"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "call not found",
		})
	}

	return c.JSON(toCallResponse(call))
}

func toCallResponse(call *models.Call) CallResponse {
	resp := CallResponse{
		UUID:     call.UUID,
		BetType:  call.BetType,
		Matchup:  call.Matchup(),
		Odds:     call.Odds,
		Pick:     call.Pick,
		Units:    call.Units,
		Analysis: call.Analysis,
		Status:   call.Status,
	}
	if call.Expert != nil {
		resp.Expert = call.Expert.Name
	}
	return resp
}

// RegisterHandlers wires the v1 endpoints onto the given router group
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Get("/plans", s.GetPlans)
	router.Get("/calls", middleware.RequireAPISubscriber, s.GetCalls)
	router.Get("/calls/:uuid", middleware.RequireAPISubscriber, s.GetCall)
}
