// Package main provides the linnet CLI: a linear softmax classifier trainer
// for CIFAR-10.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/linnet-ml/linnet/backend/cpu"
	"github.com/linnet-ml/linnet/classifier"
	"github.com/linnet-ml/linnet/dataset/cifar10"
	"github.com/linnet-ml/linnet/internal/config"
	"github.com/linnet-ml/linnet/internal/logger"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("linnet %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			logger.Log.Error("training failed", "error", err.Error())
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("linnet - linear softmax classification for Go")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  train      Train a softmax classifier on CIFAR-10")
	fmt.Println("  version    Show version")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	cfg := &config.Config{}

	fs.StringVar(&cfg.DataDir, "data", "", "Directory containing CIFAR-10 binary batches")
	fs.IntVar(&cfg.MaxTrain, "max-train", 0, "Cap on training examples (0 = all)")
	fs.IntVar(&cfg.MaxTest, "max-test", 0, "Cap on test examples (0 = all)")
	fs.BoolVar(&cfg.SubtractMean, "subtract-mean", true, "Subtract the training mean image")
	fs.BoolVar(&cfg.AppendBias, "bias", true, "Append a constant-1 bias feature")
	fs.Float64Var(&cfg.LearningRate, "lr", 1e-7, "Learning rate")
	fs.Float64Var(&cfg.Reg, "reg", 2.5e4, "L2 regularization strength")
	fs.IntVar(&cfg.Iterations, "iters", 1500, "Number of SGD iterations")
	fs.IntVar(&cfg.BatchSize, "batch", 200, "Minibatch size")
	fs.Int64Var(&cfg.Seed, "seed", 0, "RNG seed")
	fs.Float64Var(&cfg.LRDecay, "lr-decay", 0, "Multiplicative learning rate decay factor")
	fs.IntVar(&cfg.DecayEvery, "decay-every", 0, "Apply decay every N iterations (0 = off)")
	fs.StringVar(&cfg.LogLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.LogFormat, "log-format", "console", "Log format (console or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		fs.Usage()
		return err
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("loading CIFAR-10", "dir", cfg.DataDir)
	train, err := cifar10.Load(cfg.DataDir, true, cfg.MaxTrain)
	if err != nil {
		return err
	}
	test, err := cifar10.Load(cfg.DataDir, false, cfg.MaxTest)
	if err != nil {
		return err
	}
	logger.Log.Info("dataset loaded", "train", len(train.Images), "test", len(test.Images))

	if cfg.SubtractMean {
		mean := train.Mean()
		if err := train.SubtractMean(mean); err != nil {
			return err
		}
		if err := test.SubtractMean(mean); err != nil {
			return err
		}
	}
	if cfg.AppendBias {
		train.AppendBias()
		test.AppendBias()
	}

	backend := cpu.New()
	xTrain, yTrain, err := cifar10.Tensors[float64](train, backend)
	if err != nil {
		return err
	}
	xTest, yTest, err := cifar10.Tensors[float64](test, backend)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	model := classifier.New[float64](train.Dim(), cifar10.NumClasses, rng, backend)

	logger.Log.Info("training",
		"dim", train.Dim(),
		"classes", cifar10.NumClasses,
		"lr", cfg.LearningRate,
		"reg", cfg.Reg,
		"iters", cfg.Iterations,
		"batch", cfg.BatchSize)

	history, err := model.Train(ctx, xTrain, yTrain, classifier.TrainConfig{
		LearningRate: cfg.LearningRate,
		Reg:          cfg.Reg,
		Iterations:   cfg.Iterations,
		BatchSize:    cfg.BatchSize,
		Seed:         cfg.Seed,
		LRDecay:      cfg.LRDecay,
		DecayEvery:   cfg.DecayEvery,
		LogEvery:     100,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("training finished", "final_loss", float64(history[len(history)-1]))

	trainPred, err := model.Predict(xTrain)
	if err != nil {
		return err
	}
	trainAcc, err := classifier.Accuracy(trainPred, yTrain)
	if err != nil {
		return err
	}

	testPred, err := model.Predict(xTest)
	if err != nil {
		return err
	}
	testAcc, err := classifier.Accuracy(testPred, yTest)
	if err != nil {
		return err
	}

	logger.Log.Info("evaluation", "train_accuracy", trainAcc, "test_accuracy", testAcc)
	return nil
}
