package provider

import (
	"time"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/cache"
	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/queue"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/service"
	"github.com/shoppingmall/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     storage.Storage

	// Repositories
	UserRepo           repository.UserRepository
	FanRepo            repository.FanRepository
	AddressRepo        repository.AddressRepository
	CategoryRepo       repository.CategoryRepository
	ProductRepo        repository.ProductRepository
	VariantRepo        repository.ProductVariantRepository
	ProductImageRepo   repository.ProductImageRepository
	AdRepo             repository.AdvertisementRepository
	OrderRepo          repository.OrderRepository
	ProductCommentRepo repository.ProductCommentRepository
	CartRepo           repository.CartRepository
	FavoriteRepo       repository.FavoriteRepository
	PostRepo           repository.PostRepository
	PostImageRepo      repository.PostImageRepository
	PostCommentRepo    repository.PostCommentRepository
	PostLikeRepo       repository.PostLikeRepository
	CascadeRepo        repository.CascadeRepository
	UserLoginLogRepo   repository.UserLoginLogRepository

	// Services
	AuthzService          *authz.Service
	UserAuthService       *service.UserAuthService
	UserService           *service.UserService
	UserLoginLogService   *service.UserLoginLogService
	CaptchaService        *service.CaptchaService
	UploadService         *service.UploadService
	FileCleaner           *service.FileCleaner
	AddressService        *service.AddressService
	CategoryService       *service.CategoryService
	ProductService        *service.ProductService
	ProductCommentService *service.ProductCommentService
	OrderService          *service.OrderService
	CartService           *service.CartService
	FavoriteService       *service.FavoriteService
	PostService           *service.PostService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	cache.SetListingTTL(time.Duration(cfg.Cache.ListingTTLSeconds) * time.Second)
	cache.SetAuthStateTTL(time.Duration(cfg.Cache.AuthTTLSeconds) * time.Second)

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "provider", cfg.Storage.Provider, "error", err)
		panic(err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storage:     store,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.FanRepo = repository.NewFanRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.ProductImageRepo = repository.NewProductImageRepository(db)
	c.AdRepo = repository.NewAdvertisementRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductCommentRepo = repository.NewProductCommentRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.FavoriteRepo = repository.NewFavoriteRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.PostImageRepo = repository.NewPostImageRepository(db)
	c.PostCommentRepo = repository.NewPostCommentRepository(db)
	c.PostLikeRepo = repository.NewPostLikeRepository(db)
	c.CascadeRepo = repository.NewCascadeRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.UploadService = service.NewUploadService(c.Config.Upload, c.Storage)
	c.FileCleaner = service.NewFileCleaner(c.Storage, c.QueueClient)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.AuthzService)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.FanRepo, c.CascadeRepo, c.UploadService, c.FileCleaner, c.AuthzService)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(service.ProductServiceDeps{
		ProductRepo:  c.ProductRepo,
		VariantRepo:  c.VariantRepo,
		ImageRepo:    c.ProductImageRepo,
		AdRepo:       c.AdRepo,
		CommentRepo:  c.ProductCommentRepo,
		CategoryRepo: c.CategoryRepo,
		UserRepo:     c.UserRepo,
		CascadeRepo:  c.CascadeRepo,
		Uploads:      c.UploadService,
		Cleaner:      c.FileCleaner,
	})
	c.ProductCommentService = service.NewProductCommentService(c.ProductCommentRepo, c.OrderRepo, c.UserRepo)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		OrderRepo:       c.OrderRepo,
		AddressRepo:     c.AddressRepo,
		VariantRepo:     c.VariantRepo,
		CommentRepo:     c.ProductCommentRepo,
		CascadeRepo:     c.CascadeRepo,
		QueueClient:     c.QueueClient,
		AutoReceiveDays: c.Config.Order.AutoReceiveDays,
	})
	c.CartService = service.NewCartService(c.CartRepo, c.VariantRepo)
	c.FavoriteService = service.NewFavoriteService(c.FavoriteRepo, c.ProductRepo, c.ProductImageRepo)
	c.PostService = service.NewPostService(service.PostServiceDeps{
		PostRepo:    c.PostRepo,
		ImageRepo:   c.PostImageRepo,
		CommentRepo: c.PostCommentRepo,
		LikeRepo:    c.PostLikeRepo,
		UserRepo:    c.UserRepo,
		FanRepo:     c.FanRepo,
		CascadeRepo: c.CascadeRepo,
		Uploads:     c.UploadService,
		Cleaner:     c.FileCleaner,
	})
}
