package purchases

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/fridgesnap/internal/purchases"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/routes/util"
	"philcali.me/fridgesnap/internal/store"
)

type PurchaseService struct {
	purchases *purchases.Service
	opener    store.Opener
}

func NewRoute(purchases *purchases.Service, opener store.Opener) routes.Service {
	return &PurchaseService{
		purchases: purchases,
		opener:    opener,
	}
}

func (ps *PurchaseService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/purchases/restore": util.AuthorizedRoute(ps.RestorePurchases),
		"POST:/purchases/:plan":   util.WithUserStore(ps.opener, ps.PurchasePackage),
	}
}

func (ps *PurchaseService) PurchasePackage(s *store.Store, event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	plan := purchases.Plan(util.RequestParam(ctx, "plan"))
	success, err := ps.purchases.PurchasePackage(ctx, util.Username(ctx), s, plan)
	return util.SerializeResponseOK(util.IdentityThunk[PurchaseResult], PurchaseResult{
		Success:   success,
		Plan:      string(plan),
		IsPremium: s.Snapshot().IsPremium,
	}, err)
}

func (ps *PurchaseService) RestorePurchases(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	restored, err := ps.purchases.RestorePurchases(ctx)
	return util.SerializeResponseOK(util.IdentityThunk[PurchaseResult], PurchaseResult{
		Success: restored,
	}, err)
}
