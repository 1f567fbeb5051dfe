package pantry

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/exceptions"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/routes/util"
	"philcali.me/fridgesnap/internal/store"
	"philcali.me/fridgesnap/internal/vision"
)

type PantryService struct {
	opener   store.Opener
	detector vision.Detector
}

// NewRoute serves the client state. A nil detector still counts scans but
// rejects image uploads.
func NewRoute(opener store.Opener, detector vision.Detector) routes.Service {
	return &PantryService{
		opener:   opener,
		detector: detector,
	}
}

func (ps *PantryService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/state":                         util.WithUserStore(ps.opener, ps.GetState),
		"GET:/ingredients":                   util.WithUserStore(ps.opener, ps.ListIngredients),
		"POST:/ingredients":                  util.WithUserStore(ps.opener, ps.AddIngredient),
		"DELETE:/ingredients":                util.WithUserStore(ps.opener, ps.ClearIngredients),
		"DELETE:/ingredients/:ingredientId":  util.WithUserStore(ps.opener, ps.RemoveIngredient),
		"GET:/saved":                         util.WithUserStore(ps.opener, ps.ListSaved),
		"POST:/saved":                        util.WithUserStore(ps.opener, ps.SaveRecipe),
		"DELETE:/saved/:recipeId":            util.WithUserStore(ps.opener, ps.RemoveSaved),
		"GET:/recent":                        util.WithUserStore(ps.opener, ps.ListRecent),
		"POST:/recent":                       util.WithUserStore(ps.opener, ps.AddRecent),
		"GET:/preferences":                   util.WithUserStore(ps.opener, ps.GetPreferences),
		"PUT:/preferences/dietary":           util.WithUserStore(ps.opener, ps.SetDietary),
		"POST:/preferences/excluded":         util.WithUserStore(ps.opener, ps.AddExcluded),
		"DELETE:/preferences/excluded/:name": util.WithUserStore(ps.opener, ps.RemoveExcluded),
		"POST:/onboarding":                   util.WithUserStore(ps.opener, ps.CompleteOnboarding),
		"DELETE:/onboarding":                 util.WithUserStore(ps.opener, ps.ResetOnboarding),
		"PUT:/premium":                       util.WithUserStore(ps.opener, ps.SetPremium),
		"POST:/scans":                        util.WithUserStore(ps.opener, ps.Scan),
	}
}

func _stateOutput(s *store.Store) StateOutput {
	remaining, unlimited := s.RemainingScans()
	return StateOutput{
		State:          s.Snapshot(),
		RemainingScans: remaining,
		Unlimited:      unlimited,
	}
}

func (ps *PantryService) GetState(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseOK(util.IdentityThunk[StateOutput], _stateOutput(s), nil)
}

func (ps *PantryService) ListIngredients(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseOK(data.NewQueryResults[data.Ingredient], s.Ingredients(), nil)
}

func (ps *PantryService) AddIngredient(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input IngredientInput
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	ingredient, err := s.AddIngredient(input.Name, input.Category)
	return util.SerializeResponseOK(util.IdentityThunk[data.Ingredient], ingredient, err)
}

func (ps *PantryService) ClearIngredients(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.ClearIngredients()
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) RemoveIngredient(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.RemoveIngredient(util.RequestParam(ctx, "ingredientId"))
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) ListSaved(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeRecipes(s.Snapshot().SavedRecipes)
}

func _decodeRecipe(event events.APIGatewayV2HTTPRequest) (data.Recipe, error) {
	var recipe data.Recipe
	if err := util.DecodeBody(event, &recipe); err != nil {
		return recipe, err
	}
	if strings.TrimSpace(recipe.Id) == "" {
		return recipe, exceptions.InvalidInput("Recipe id must not be empty")
	}
	return recipe, nil
}

func (ps *PantryService) SaveRecipe(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := _decodeRecipe(event)
	if err == nil {
		s.AddSavedRecipe(recipe)
	}
	return util.SerializeResponseOK(util.IdentityThunk[data.Recipe], recipe, err)
}

func (ps *PantryService) RemoveSaved(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.RemoveSavedRecipe(util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) ListRecent(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeRecipes(s.Snapshot().RecentRecipes)
}

func (ps *PantryService) AddRecent(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := _decodeRecipe(event)
	if err == nil {
		s.AddRecentRecipe(recipe)
	}
	return util.SerializeResponseOK(util.IdentityThunk[data.Recipe], recipe, err)
}

func (ps *PantryService) GetPreferences(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseOK(util.IdentityThunk[data.Preferences], s.Preferences(), nil)
}

func (ps *PantryService) SetDietary(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input DietaryInput
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	s.SetDietaryRestrictions(input.DietaryRestrictions)
	return util.SerializeResponseOK(util.IdentityThunk[data.Preferences], s.Preferences(), nil)
}

func (ps *PantryService) AddExcluded(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input ExcludedInput
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Excluded ingredient must not be empty")
	}
	s.AddExcludedIngredient(input.Name)
	return util.SerializeResponseOK(util.IdentityThunk[data.Preferences], s.Preferences(), nil)
}

func (ps *PantryService) RemoveExcluded(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.RemoveExcludedIngredient(util.RequestParam(ctx, "name"))
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) CompleteOnboarding(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.CompleteOnboarding()
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) ResetOnboarding(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	s.ResetOnboarding()
	return util.SerializeResponseNoContent(nil)
}

func (ps *PantryService) SetPremium(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input PremiumInput
	if err := util.DecodeBody(event, &input); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	s.SetPremium(input.IsPremium)
	return util.SerializeResponseOK(util.IdentityThunk[StateOutput], _stateOutput(s), nil)
}

// Scan spends one scan from today's quota. With an image the detections are
// added to the pantry; a failed detection does not spend the scan.
func (ps *PantryService) Scan(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	var input ScanInput
	if strings.TrimSpace(event.Body) != "" {
		if err := util.DecodeBody(event, &input); err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
	}
	if !s.CanScan() {
		return events.APIGatewayV2HTTPResponse{}, exceptions.ScanLimit(data.FreeScanLimit)
	}
	added := 0
	if input.Image != nil {
		if ps.detector == nil {
			return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Image scanning is not configured")
		}
		count, err := vision.Scan(ctx, ps.detector, s, *input.Image)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer(err.Error())
		}
		added = count
	}
	s.IncrementScanCount()
	remaining, unlimited := s.RemainingScans()
	return util.SerializeResponseOK(util.IdentityThunk[ScanResult], ScanResult{
		Added:          added,
		RemainingScans: remaining,
		Unlimited:      unlimited,
	}, nil)
}
