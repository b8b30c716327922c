package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/matryer/is"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRunArgs(t *testing.T) {
	is := is.New(t)
	logger, logs := observedLogger()

	var out bytes.Buffer
	status := run(config{args: []string{"1970-01-01T00:00:00Z", "2000-01-01T00:00:00.5Z"}}, strings.NewReader(""), &out, logger)
	is.Equal(status, 0)
	is.Equal(out.String(), "1970-01-01T00:00:00Z\t0\n2000-01-01T00:00:00.5Z\t946684800500000000\n")
	is.Equal(logs.FilterMessage("converted timestamp").Len(), 2)
}

func TestRunStdin(t *testing.T) {
	is := is.New(t)
	logger, logs := observedLogger()

	var out bytes.Buffer
	in := strings.NewReader("2024-02-29T12:30:45.123Z\n\nnot-a-timestamp\n  1972-01-01T00:00:00Z  \n")
	status := run(config{}, in, &out, logger)
	is.Equal(status, 1) // One input failed
	is.Equal(out.String(), "2024-02-29T12:30:45.123Z\t1709209845123000000\n1972-01-01T00:00:00Z\t63072000000000000\n")

	failures := logs.FilterMessage("timestamp conversion failed").All()
	is.Equal(len(failures), 1)
	is.Equal(failures[0].ContextMap()["input"], "not-a-timestamp")
}

func TestRunQuote(t *testing.T) {
	is := is.New(t)
	logger, _ := observedLogger()

	record := `{"price":{"price":"100","block_timestamp":"2000-01-01T00:00:00Z","block_height":"5"},"nonce":"1","decimals":"2","id":"3"}`

	var out bytes.Buffer
	status := run(config{quote: true}, strings.NewReader(record), &out, logger)
	is.Equal(status, 0)
	is.Equal(out.String(), `{"price":{"price":"100","block_timestamp":"946684800000000000","block_height":5},"nonce":1,"decimals":2,"id":3}`+"\n")

	out.Reset()
	status = run(config{quote: true}, strings.NewReader(`{"prices":[`+record+`,`+record+`]}`), &out, logger)
	is.Equal(status, 0)
	is.True(strings.HasPrefix(out.String(), `{"prices":[{"price":`))
}

func TestRunQuoteTimestampFailure(t *testing.T) {
	is := is.New(t)
	logger, logs := observedLogger()

	record := `{"price":{"price":"100","block_timestamp":"2000-01-01T00:00:00","block_height":"5"},"nonce":"1","decimals":"2","id":"3"}`

	status := run(config{quote: true}, strings.NewReader(record), io.Discard, logger)
	is.Equal(status, 1)
	is.Equal(logs.FilterMessage("block timestamp conversion failed").Len(), 1)

	status = run(config{quote: true}, strings.NewReader(`{"price":`), io.Discard, logger)
	is.Equal(status, 1)
	is.Equal(logs.FilterMessage("price record translation failed").Len(), 1)
}

func TestParseFlags(t *testing.T) {
	is := is.New(t)

	cfg, err := parseFlags([]string{"-quote", "-log-level", "debug", "a", "b"}, io.Discard)
	is.NoErr(err)
	is.True(cfg.quote)
	is.Equal(cfg.logLevel, "debug")
	is.Equal(cfg.logFormat, "console")
	is.Equal(cfg.args, []string{"a", "b"})

	_, err = parseFlags([]string{"-nope"}, io.Discard)
	is.True(err != nil)
}

func TestNewLogger(t *testing.T) {
	is := is.New(t)

	logger, err := newLogger("DEBUG", "json")
	is.NoErr(err)
	is.True(logger.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", "json")
	is.True(err != nil) // Unknown level should fail
}
