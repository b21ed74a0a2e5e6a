package controller

import (
	"fmt"

	"edupath-be/internal/dto"
	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/pkg/serverutils"
	"edupath-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdvisingController interface {
	RegisterRoutes(r fiber.Router)
	StartAnalysis(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Schools(ctx *fiber.Ctx) error
	Timeline(ctx *fiber.Ctx) error
	Adjust(ctx *fiber.Ctx) error
}

type advisingController struct {
	advisingService service.IAdvisingService
}

func NewAdvisingController(advisingService service.IAdvisingService) IAdvisingController {
	return &advisingController{
		advisingService: advisingService,
	}
}

func (c *advisingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis/v1")
	h.Post("", c.StartAnalysis)
	h.Get(":id", c.Show)
	h.Get(":id/schools", c.Schools)
	h.Get(":id/timeline", c.Timeline)
	h.Post(":id/adjust", c.Adjust)
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrInvalidInput, err)
	}
	return serverutils.ValidateRequest(out)
}

func (c *advisingController) StartAnalysis(ctx *fiber.Ctx) error {
	var req dto.StartAnalysisRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	id, err := c.advisingService.StartAnalysis(ctx.UserContext(), req.ToEntities())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start analysis", dto.StartAnalysisResponse{
		AnalysisId: id,
		Status:     string(entity.SessionStatusAnalyzed),
		Message:    "Profile analyzed successfully",
	}))
}

func (c *advisingController) Show(ctx *fiber.Ctx) error {
	session, err := c.advisingService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show analysis", dto.NewSessionResponse(session)))
}

func (c *advisingController) Schools(ctx *fiber.Ctx) error {
	rec, err := c.advisingService.FetchMatches(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success match schools", dto.NewSchoolsResponse(rec)))
}

func (c *advisingController) Timeline(ctx *fiber.Ctx) error {
	tl, err := c.advisingService.FetchTimeline(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate timeline", tl))
}

func (c *advisingController) Adjust(ctx *fiber.Ctx) error {
	var req dto.AdjustRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	session, err := c.advisingService.AdjustRecommendations(ctx.UserContext(), ctx.Params("id"), service.Adjustment{
		Action:    req.Action,
		ProgramId: req.SchoolId,
		Tier:      entity.Tier(req.SchoolType),
	})
	if err != nil {
		return err
	}

	res := dto.AdjustResponse{
		TargetSchools: session.TargetList,
		ReachSchools:  session.ReachList,
		Timeline:      session.Timeline,
		AdjustmentMessage: fmt.Sprintf("Recommendations updated! You now have %d target schools and %d reach schools.",
			len(session.TargetList), len(session.ReachList)),
	}
	return ctx.JSON(serverutils.SuccessResponse("Success adjust schools", res))
}
