package appcontext

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/RoyceAzure/lab/shop/internal/config"
	"github.com/RoyceAzure/lab/shop/internal/infra/cache"
	rediscache "github.com/RoyceAzure/lab/shop/internal/infra/cache/redis"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/service"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf             *config.Config
	Logger         zerolog.Logger
	DbConn         *gorm.DB
	DbDao          *db.DbDao
	RedisClient    *goredis.Client
	Cache          cache.Cache
	EventProducer  producer.IOrderEventProducer
	OrderService   service.IOrderService
	ProductService service.IProductService
	UserService    service.IUserService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}

	return &app, nil
}

func (app *ApplicationContext) Init() error {
	app.setUpLogger()

	err := app.setUpdbConn()
	if err != nil {
		return err
	}
	err = app.setUpdbDao()
	if err != nil {
		return err
	}

	err = app.setUpCache()
	if err != nil {
		return err
	}

	err = app.setUpEventProducer()
	if err != nil {
		return err
	}

	err = app.setUpServices()
	if err != nil {
		return err
	}

	return nil
}

func (app *ApplicationContext) setUpLogger() {
	app.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("module", app.Cf.ModulerName).
		Logger()
}

func (app *ApplicationContext) setUpdbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpdbDao() error {
	log.Printf("Start setup database DAO")
	app.DbDao = db.NewDbDao(app.DbConn)
	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}
	log.Printf("Finish setup database DAO")
	return nil
}

func (app *ApplicationContext) setUpCache() error {
	//未設定redis就不啟用cache
	if app.Cf.RedisAddr == "" {
		log.Printf("Redis not configured, cache disabled")
		return nil
	}

	log.Printf("Start setup redis cache")
	app.RedisClient = goredis.NewClient(&goredis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
	})
	if err := app.RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	app.Cache = rediscache.NewRedisCache(app.RedisClient, app.Cf.ModulerName)
	log.Printf("Finish setup redis cache")
	return nil
}

func (app *ApplicationContext) setUpEventProducer() error {
	//未設定kafka就不發佈事件
	brokers := app.Cf.KafkaBrokerList()
	if len(brokers) == 0 || app.Cf.KafkaOrderTopic == "" {
		log.Printf("Kafka not configured, order events disabled")
		return nil
	}

	log.Printf("Start setup order event producer")
	app.EventProducer = producer.NewOrderEventProducer(brokers, app.Cf.KafkaOrderTopic)
	log.Printf("Finish setup order event producer")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	log.Printf("Start setup services")
	orderRepo := db.NewOrderRepo(app.DbDao)
	productRepo := db.NewProductRepo(app.DbDao)
	userRepo := db.NewUserRepo(app.DbDao)

	app.OrderService = service.NewOrderService(app.DbDao, orderRepo, productRepo, userRepo, app.EventProducer, app.Logger)
	app.ProductService = service.NewProductService(productRepo, app.Cache, app.Logger)
	app.UserService = service.NewUserService(userRepo)
	log.Printf("Finish setup services")
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	// buffered，逾時放棄等待後worker的send不會永遠卡住
	done := make(chan error, 1)
	go func() {
		defer close(done)

		if app.EventProducer != nil {
			log.Printf("Closing event producer...")
			if err := app.EventProducer.Close(); err != nil {
				//有錯誤不結束流程
				log.Printf("event producer shutdown error: %v", err)
			}
		}

		if app.RedisClient != nil {
			log.Printf("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				log.Printf("redis shutdown error: %v", err)
			}
		}

		// 關閉 DB
		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
