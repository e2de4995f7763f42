package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/saturn-companion/backend/internal/analysis/responder"
	"github.com/zhouzirui/saturn-companion/backend/internal/config"
	"github.com/zhouzirui/saturn-companion/backend/internal/handler"
	"github.com/zhouzirui/saturn-companion/backend/internal/metrics"
	"github.com/zhouzirui/saturn-companion/backend/internal/model/resource"
	"github.com/zhouzirui/saturn-companion/backend/internal/service/chat"
	emotionservice "github.com/zhouzirui/saturn-companion/backend/internal/service/emotion"
	"github.com/zhouzirui/saturn-companion/backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("backend exited: %v", err)
	}
}

// run 持有所有需要在退出前释放的资源，错误交由 main 统一处理。
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	st, err := store.Open(ctx, store.Config{
		Driver:      cfg.Storage.Driver,
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[store] close failed: %v", err)
		}
	}()
	log.Printf("[store] using %s storage", cfg.Storage.Driver)

	var picker responder.Picker
	if cfg.Responder.Seed != nil {
		picker = responder.NewSeededPicker(*cfg.Responder.Seed)
		log.Printf("[responder] using fixed seed %d", *cfg.Responder.Seed)
	}
	replies := responder.New(responder.DefaultCatalog(), picker)

	emotionSvc := newEmotionService(ctx, cfg.AI)

	recorder := metrics.NewRecorder()
	chatService := chat.NewService(st, replies, emotionSvc, recorder, chat.Config{
		HistoryLimit: cfg.Responder.HistoryLimit,
		PageLimit:    cfg.Responder.PageLimit,
	})

	resources := resource.NewMemoryStore(resource.Seed())
	router := handler.NewRouter(resources, chatService, recorder)

	return startServer(ctx, cfg.Server, router)
}

// newEmotionService 初始化可选的文本情绪推断，失败时返回 nil 以使用客户端提供的标签。
func newEmotionService(ctx context.Context, aiCfg config.AIConfig) chat.Labeller {
	if !aiCfg.EmotionLLMEnabled {
		log.Println("Emotion classifier disabled by configuration")
		return nil
	}
	if !aiCfg.Enabled() {
		log.Println("Ark 凭证未配置，跳过情绪推断初始化")
		return nil
	}

	chatModel, err := aiCfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to create chat model: %v", err)
		return nil
	}

	svc, err := emotionservice.NewService(ctx, chatModel, emotionservice.Config{Enabled: true})
	if err != nil {
		log.Printf("warning: failed to initialize emotion service: %v", err)
		return nil
	}
	log.Println("Emotion classifier service enabled")
	return svc
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Saturn companion backend listening on %s", addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
