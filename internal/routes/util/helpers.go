package util

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/fridgesnap/internal/data"
	"philcali.me/fridgesnap/internal/exceptions"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/store"
)

func _claims(event events.APIGatewayV2HTTPRequest) map[string]string {
	authorizer := event.RequestContext.Authorizer
	if authorizer == nil || authorizer.JWT == nil {
		return nil
	}
	return authorizer.JWT.Claims
}

func AuthorizedRoute(route routes.Route) routes.Route {
	return func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		if username, ok := _claims(event)["username"]; ok && username != "" {
			return route(event, context.WithValue(ctx, "Username", username))
		}
		return events.APIGatewayV2HTTPResponse{}, exceptions.InternalServer("Unexpected internal error")
	}
}

func Username(ctx context.Context) string {
	if username, ok := ctx.Value("Username").(string); ok {
		return username
	}
	return ""
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value("Params").(map[string]string); ok {
		return params[name]
	}
	return ""
}

func IdentityThunk[T interface{}](thing T) T {
	return thing
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, http.StatusOK)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusNoContent,
	}, nil
}

func SerializeRecipes(recipes []data.Recipe) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponseOK(data.NewQueryResults[data.Recipe], recipes, nil)
}

func DecodeBody(event events.APIGatewayV2HTTPRequest, out any) error {
	if err := json.Unmarshal([]byte(event.Body), out); err != nil {
		return exceptions.InvalidInput(err.Error())
	}
	return nil
}

// WithUserStore opens the caller's store, runs the route against it, and
// waits for the write-behind to finish before the invocation returns.
func WithUserStore(opener store.Opener, route func(*store.Store, events.APIGatewayV2HTTPRequest, context.Context) (events.APIGatewayV2HTTPResponse, error)) routes.Route {
	return AuthorizedRoute(func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
		s := opener(ctx, Username(ctx))
		defer s.Close(context.WithoutCancel(ctx))
		return route(s, event, ctx)
	})
}
