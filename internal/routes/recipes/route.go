package recipes

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/exceptions"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/routes/util"
	"philcali.me/fridgesnap/internal/store"
	"philcali.me/fridgesnap/internal/suggestions"
)

type RecipeService struct {
	suggestions *suggestions.Service
	opener      store.Opener
}

func NewRoute(suggestions *suggestions.Service, opener store.Opener) routes.Service {
	return &RecipeService{
		suggestions: suggestions,
		opener:      opener,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipes/suggestions": util.WithUserStore(rs.opener, rs.SuggestRecipes),
		"GET:/recipes/search":      util.AuthorizedRoute(rs.SearchRecipes),
		"GET:/recipes/featured":    util.AuthorizedRoute(rs.FeaturedRecipes),
		"GET:/recipes/:recipeId":   util.WithUserStore(rs.opener, rs.GetRecipe),
	}
}

func (rs *RecipeService) SuggestRecipes(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	excluded := s.Preferences().ExcludedIngredients
	return util.SerializeRecipes(rs.suggestions.SuggestForIngredients(ctx, s.Ingredients(), excluded...))
}

func (rs *RecipeService) SearchRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	query := SearchQuery{
		Query: strings.TrimSpace(event.QueryStringParameters["q"]),
	}
	return util.SerializeRecipes(rs.suggestions.Search(ctx, query.Query))
}

func (rs *RecipeService) FeaturedRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeRecipes(rs.suggestions.Featured(ctx))
}

// GetRecipe also records the recipe as recently viewed.
func (rs *RecipeService) GetRecipe(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipeId := util.RequestParam(ctx, "recipeId")
	recipe := rs.suggestions.Details(ctx, recipeId)
	if recipe == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.NotFound("recipe", recipeId)
	}
	s.AddRecentRecipe(*recipe)
	return util.SerializeResponseOK(util.IdentityThunk[data.Recipe], *recipe, nil)
}
