package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/config"
	"philcali.me/fridgesnap/internal/dynamodb/state"
	"philcali.me/fridgesnap/internal/logger"
	"philcali.me/fridgesnap/internal/mealdb"
	"philcali.me/fridgesnap/internal/notifications"
	"philcali.me/fridgesnap/internal/purchases"
	"philcali.me/fridgesnap/internal/routes"
	"philcali.me/fridgesnap/internal/routes/pantry"
	purchaseRoutes "philcali.me/fridgesnap/internal/routes/purchases"
	"philcali.me/fridgesnap/internal/routes/recipes"
	"philcali.me/fridgesnap/internal/sns/services"
	"philcali.me/fridgesnap/internal/spoonacular"
	"philcali.me/fridgesnap/internal/store"
	"philcali.me/fridgesnap/internal/suggestions"
)

type App struct {
	Router routes.Router
	Logger *zap.Logger
}

// _accountDir keeps every account inside the state directory.
func _accountDir(root string, accountId string) string {
	return filepath.Join(root, strings.ReplaceAll(url.PathEscape(accountId), ".", "%2E"))
}

func NewApp() App {
	cfg := config.FromEnvironment()
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(fmt.Sprintf("Failed to load AWS config: %s", err))
	}
	var opener store.Opener
	if cfg.TableName != "" {
		client := dynamodb.NewFromConfig(awsCfg)
		opener = func(ctx context.Context, accountId string) *store.Store {
			return store.Open(ctx, state.NewStateService(cfg.TableName, client, accountId), store.WithLogger(log))
		}
	} else {
		log.Info("no table configured, keeping client state on disk", zap.String("dir", cfg.StateDir))
		opener = func(ctx context.Context, accountId string) *store.Store {
			return store.Open(ctx, store.NewFilePersistence(_accountDir(cfg.StateDir, accountId)), store.WithLogger(log))
		}
	}
	var notifier notifications.NotificationService = notifications.NoopNotifications{}
	if cfg.TopicArn != "" {
		notifier = &services.NotificationSNSService{
			Sns:      sns.NewFromConfig(awsCfg),
			TopicArn: cfg.TopicArn,
		}
	}
	service := suggestions.NewService(
		mealdb.NewDefaultMealClient(log),
		spoonacular.NewClient(config.SpoonacularKey, log),
		config.SpoonacularKey,
		log,
	)
	service.ExcludeFilter = cfg.ExcludeFilter
	router := routes.NewRouter(
		log,
		recipes.NewRoute(service, opener),
		pantry.NewRoute(opener, nil),
		purchaseRoutes.NewRoute(purchases.NewService(notifier, log), opener),
	)
	return App{
		Router: *router,
		Logger: log,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp()
	defer app.Logger.Sync()
	lambda.Start(app.HandleRequest)
}
