package di

import (
	"gorm.io/gorm"

	"medialib/application/serviceimpl"
	"medialib/domain/ports"
	"medialib/domain/repositories"
	"medialib/domain/services"
	"medialib/generators"
	"medialib/infrastructure/conversion"
	"medialib/infrastructure/postgres"
	"medialib/infrastructure/queue"
	"medialib/infrastructure/storage"
	"medialib/infrastructure/transformers"
	"medialib/pkg/config"
	"medialib/pkg/logger"
	"medialib/pkg/scheduler"
	"medialib/transform"
)

type Container struct {
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	Storage        ports.StoragePort
	QueueClient    *queue.Client
	QueuePublisher *queue.Publisher
	Conversion     *conversion.Client
	EventScheduler scheduler.EventScheduler

	// Generators
	GeneratorRegistry *generators.Registry
	PathGenerator     ports.PathGenerator
	URLGenerator      ports.URLGenerator

	// Repositories
	FileRepository           repositories.FileRepository
	TransformationRepository repositories.TransformationRepository

	// Transform pipeline
	Classifier          *transform.Classifier
	GroupResolver       *transform.GroupResolver
	TransformerRegistry *transform.Registry
	Runner              *transform.Runner
	Dispatcher          *transform.Dispatcher
	Deleter             *transform.Deleter
	Worker              *queue.Worker

	// Services
	MediaService services.MediaService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}
	if err := c.initLogger(); err != nil {
		return err
	}
	if err := c.initInfrastructure(); err != nil {
		return err
	}
	if err := c.initGenerators(); err != nil {
		return err
	}
	if err := c.initRepositories(); err != nil {
		return err
	}
	if err := c.initTransformPipeline(); err != nil {
		return err
	}
	if err := c.initServices(); err != nil {
		return err
	}
	if err := c.initScheduler(); err != nil {
		return err
	}
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(c.Config.Database)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	c.DB = db
	logger.Info("database connected and migrated")

	store, err := storage.NewStore(c.Config.Disks)
	if err != nil {
		return err
	}
	c.Storage = store
	logger.Info("storage initialized", "disks", len(c.Config.Disks), "default", c.Config.DefaultDisk)

	client, err := queue.NewClient(c.Config.Queue)
	if err != nil {
		return err
	}
	c.QueueClient = client
	c.QueuePublisher = queue.NewPublisher(client)

	c.Conversion = conversion.NewClient(c.Config.Conversion)
	return nil
}

func (c *Container) initGenerators() error {
	c.GeneratorRegistry = generators.NewRegistry()

	paths, err := c.GeneratorRegistry.NewPath(c.Config.PathGenerator)
	if err != nil {
		return err
	}
	c.PathGenerator = paths

	urls, err := generators.NewURLRouter(
		c.GeneratorRegistry,
		c.Config.URLGenerator,
		c.Config.Disks,
		c.Config.Presign.Expiry,
	)
	if err != nil {
		return err
	}
	c.URLGenerator = urls

	logger.Info("generators initialized",
		"path_strategy", c.Config.PathGenerator,
		"url_strategy", c.Config.URLGenerator,
	)
	return nil
}

func (c *Container) initRepositories() error {
	c.FileRepository = postgres.NewFileRepository(c.DB)
	c.TransformationRepository = postgres.NewTransformationRepository(c.DB)
	return nil
}

func (c *Container) initTransformPipeline() error {
	c.Classifier = transform.NewClassifier(c.Config.FileTypes)
	c.GroupResolver = transform.NewGroupResolver(c.Config)

	c.TransformerRegistry = transform.NewRegistry()
	c.TransformerRegistry.Register("image.resize",
		transformers.NewResizeImageFactory(c.Storage, c.PathGenerator, c.Config.TempDir))
	c.TransformerRegistry.Register("document.convert",
		transformers.NewDocumentConvertFactory(c.Storage, c.PathGenerator, c.Conversion, c.Classifier, c.Config.TempDir))

	c.Runner = transform.NewRunner(c.TransformerRegistry, c.FileRepository, c.TransformationRepository)
	c.Dispatcher = transform.NewDispatcher(c.Config, c.QueuePublisher, c.Runner, c.GroupResolver)
	c.Deleter = transform.NewDeleter(c.Storage)
	c.Worker = queue.NewWorker(c.QueueClient, c.Runner, c.Deleter, c.Config.Retry.Tries)

	logger.Info("transform pipeline initialized", "tries", c.Config.Retry.Tries)
	return nil
}

func (c *Container) initServices() error {
	c.MediaService = serviceimpl.NewMediaService(
		c.Config,
		c.FileRepository,
		c.TransformationRepository,
		c.Storage,
		c.PathGenerator,
		c.URLGenerator,
		c.QueuePublisher,
		c.Dispatcher,
		c.Classifier,
	)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	tempDir := c.Config.TempDir
	if err := c.EventScheduler.AddJob("temp-sweep", "0 * * * *", func() {
		scheduler.SweepTempFiles(tempDir, scheduler.DefaultSweepTTL)
	}); err != nil {
		return err
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Shutdown() {
	if c.EventScheduler != nil {
		c.EventScheduler.Stop()
	}
	if c.QueueClient != nil {
		c.QueueClient.Close()
	}
	logger.Info("container shut down")
}
