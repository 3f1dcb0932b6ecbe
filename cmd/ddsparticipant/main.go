// SPDX-License-Identifier: MPL-2.0
// SPDX-FileCopyrightText: Copyright (c) 2026, go-dds contributors

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-dds/rtps/dds"
	"github.com/go-dds/rtps/qos"
)

// Run a subscriber:
//
//	go run . -mode sub -topic chatter
//
// Run a publisher against it, one line of stdin per sample:
//
//	go run . -mode pub -topic chatter
func main() {
	fDomain := flag.Uint("domain", 0, "domain id")
	fTopic := flag.String("topic", "chatter", "topic name")
	fType := flag.String("type", "std_msgs/String", "topic type name")
	fMode := flag.String("mode", "sub", "pub or sub")
	fReliable := flag.Bool("reliable", false, "use Reliable instead of BestEffort")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -mode pub|sub -topic <name> [-domain <id>] [-reliable]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	lev, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lev == zerolog.NoLevel {
		lev = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.StampMicro,
	}).With().Timestamp().Logger().Level(lev)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, *fDomain, *fTopic, *fType, *fMode, *fReliable); err != nil {
		log.Fatal().Err(err).Msg("ddsparticipant finished with error")
	}
}

func run(ctx context.Context, domainId uint, topicName, typeName, mode string, reliable bool) error {
	dp, err := dds.NewDomainParticipant(uint32(domainId))
	if err != nil {
		return fmt.Errorf("create domain participant: %w", err)
	}
	defer dp.Close()

	topic, err := dp.CreateTopic(topicName, typeName)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}

	switch mode {
	case "pub":
		return runPublisher(ctx, dp, topic, reliable)
	case "sub":
		return runSubscriber(ctx, dp, topic, reliable)
	default:
		return fmt.Errorf("unknown -mode %q, want pub or sub", mode)
	}
}

func runPublisher(ctx context.Context, dp *dds.DomainParticipant, topic dds.Topic, reliable bool) error {
	wq := qos.DefaultWriterQos()
	if reliable {
		wq.Reliability.Kind = qos.Reliable
	}
	writer, err := dp.CreatePublisher().CreateDataWriter(topic, wq)
	if err != nil {
		return fmt.Errorf("create data writer: %w", err)
	}

	log.Info().Str("topic", topic.Name).Msg("publishing lines from stdin, Ctrl-D to stop")
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			sn := writer.Write([]byte(line))
			log.Info().Int64("seq", int64(sn)).Str("data", line).Msg("published sample")
		}
	}
}

func runSubscriber(ctx context.Context, dp *dds.DomainParticipant, topic dds.Topic, reliable bool) error {
	rq := qos.DefaultReaderQos()
	if reliable {
		rq.Reliability.Kind = qos.Reliable
	}
	reader, err := dp.CreateSubscriber().CreateDataReader(topic, rq)
	if err != nil {
		return fmt.Errorf("create data reader: %w", err)
	}
	reader.SetListener(func(sample dds.ReaderSample) {
		if sample.Disposed {
			log.Info().Stringer("writer", sample.WriterGuid).Msg("instance disposed")
			return
		}
		log.Info().Stringer("writer", sample.WriterGuid).Str("data", string(sample.Data)).Msg("received sample")
	})

	log.Info().Str("topic", topic.Name).Msg("subscribed, waiting for samples")
	<-ctx.Done()
	return nil
}
