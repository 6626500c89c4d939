package main

import (
	"errors"
	"flag"
	"fmt"

	"webshell/internal/config"
	"webshell/internal/desktop"
	"webshell/internal/ipc"
	"webshell/internal/logger"
	"webshell/internal/protocol"
	"webshell/internal/resource"
	"webshell/internal/shell"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径 (JSON)，默认读取数据目录下的 config.json")
	title := flag.String("title", "", "窗口标题")
	startURL := flag.String("url", "", "启动地址：scheme 内相对路径或 http(s) URL")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf(logger.CatSystem, "加载配置失败: %v", err)
	}
	if *title != "" {
		cfg.Title = *title
	}
	if *startURL != "" {
		cfg.URL = *startURL
	}

	setupLogging(cfg)
	logger.Infof(logger.CatSystem, "========== webshell 启动 ==========")

	// 任何 panic 都在入口处收敛为受控退出
	err = shell.Guard(func() error { return run(cfg) })
	if err != nil {
		var aerr *shell.AbortError
		if errors.As(err, &aerr) {
			logger.Errorf(logger.CatSystem, "panic stack:\n%s", aerr.Stack)
		}
		logger.Fatalf(logger.CatSystem, "%v", err)
	}

	logger.Infof(logger.CatSystem, "webshell 已退出")
	logger.Default().Close()
}

func setupLogging(cfg config.Config) {
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetJSONMode(cfg.Log.JSON)
	if err := logger.SetLogDir(cfg.Log.Dir); err != nil {
		logger.Warnf(logger.CatSystem, "日志文件不可用，仅输出到 stderr: %v", err)
	}
}

func run(cfg config.Config) error {
	resolver, err := resource.ForProfile(cfg.Resource.Profile, cfg.Resource.Root)
	if err != nil {
		return fmt.Errorf("resource resolver: %w", err)
	}
	logger.InfoFields(logger.CatSystem, "resource resolver ready", logger.F{
		"kind":  resolver.Kind(),
		"local": resolver.Local(),
	})

	recorder := ipc.NewRecorder(cfg.IPC.History)
	factory := desktop.NewFactory(desktop.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		DevTools:   cfg.DevTools,
		Handler:    protocol.NewHandler(resolver),
		InitScript: desktop.DefaultInitScript,
		OnMessage:  recorder.Receive,
		Logger:     logger.Default(),
		DataDir:    config.DataDir(),
	})

	lc := shell.New(factory, cfg.Title, cfg.URL)
	if err := lc.Run(desktop.NewSource(factory)); err != nil {
		return err
	}
	recorder.LogSummary()
	return nil
}
