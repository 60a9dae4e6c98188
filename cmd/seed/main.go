package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/config"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/repository"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/seed"
	"go.uber.org/zap"
)

func main() {
	var op int
	var n int
	var users string
	var file string

	flag.IntVar(&op, "op", 0, "operation (1: insert random activity, 2: import activity from csv)")
	flag.IntVar(&n, "n", 20, "number of random rows to insert")
	flag.StringVar(&users, "users", "admin,manager,analyst,associate", "comma separated usernames for random rows")
	flag.StringVar(&file, "file", "", "csv file for op 2")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	dbpool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	repo := repository.NewRepository(cfg, dbpool)

	var activities []*domain.Activity
	switch op {
	case 0:
		logger.Error("no operation given")
		return
	case 1:
		if n <= 0 {
			logger.Error("n must be positive", zap.Int("n", n))
			return
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		activities = seed.RandomActivities(rng, strings.Split(users, ","), n)
	case 2:
		f, err := os.Open(file)
		if err != nil {
			logger.Error("failed to open csv", zap.String("file", file), zap.Error(err))
			return
		}
		defer f.Close()

		activities, err = seed.ReadActivities(f)
		if err != nil {
			logger.Error("failed to read csv", zap.Error(err))
			return
		}
	default:
		logger.Error("unknown operation", zap.Int("op", op))
		return
	}

	inserted, err := seed.Insert(repo, activities)
	if err != nil {
		logger.Warn("some rows were not inserted", zap.Error(err))
	}
	logger.Info("activity seeded", zap.Int("count", inserted))
}
