package routes

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/exceptions"
	"philcali.me/fridgesnap/internal/routes/filters"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	params := make(map[string]string)
	if event.RawPath == cr.Path {
		return params, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	for i, p := range cr.Matcher.ParamNames {
		value, err := url.PathUnescape(values[i+1])
		if err != nil {
			value = values[i+1]
		}
		params[p] = value
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *zap.Logger
}

// NewRouter orders static paths ahead of parameterized ones so that
// /recipes/search never lands on /recipes/:id.
func NewRouter(logger *zap.Logger, services ...Service) *Router {
	var routes []CachedRoute
	var fltrs []filters.RequestFilter
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			cachedRoute := CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			}
			routes = append(routes, cachedRoute)
		}
	}
	sort.SliceStable(routes, func(i, j int) bool {
		pi := strings.Count(routes[i].Path, ":")
		pj := strings.Count(routes[j].Path, ":")
		if pi != pj {
			return pi < pj
		}
		return routes[i].Path < routes[j].Path
	})
	fltrs = append(fltrs, filters.DefaultCorsFilter())
	fltrs = append(fltrs, filters.DefaultAuthorizationFilter())
	return &Router{
		Routes:  routes,
		Filters: fltrs,
		Logger:  logger,
	}
}

func translateError(err error) events.APIGatewayV2HTTPResponse {
	statusCode := exceptions.StatusCode(err)
	body, _ := json.Marshal(map[string]string{"message": err.Error()})
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers,
	}
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, "Params", params))
			if err != nil {
				response := translateError(err)
				if response.StatusCode >= 500 {
					r.Logger.Error("route failed", zap.String("method", route.Method), zap.String("path", route.Path), zap.Error(err))
				}
				return response
			}
			return resp
		}
	}
	return translateError(exceptions.NotFound("route", event.RawPath))
}
