// Command epochnanos converts UTC timestamps of the form
// YYYY-MM-DDTHH:MM:SS[.fraction]Z to nanoseconds since the Unix epoch.
//
// Timestamps are taken from the arguments, or one per line from stdin when
// there are none. Each result is written as the input, a tab, and the
// nanosecond count.
//
// With -quote a raw oracle price record, or a {"prices":[...]} batch, is
// read as JSON from stdin and written back translated.
//
//   epochnanos 2024-02-29T12:30:45.123Z
//   echo '{"price":{...},"nonce":"1",...}' | epochnanos -quote
package main

import (
	"bufio"
	"flag"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/imarsman/epochnanos"
	"github.com/imarsman/epochnanos/pkg/quote"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// config is set from the command line
type config struct {
	quote     bool
	logLevel  string
	logFormat string
	args      []string
}

func parseFlags(args []string, stderr io.Writer) (cfg config, err error) {
	fs := flag.NewFlagSet("epochnanos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.quote, "quote", false, "translate an oracle price record read as JSON from stdin")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.logFormat, "log-format", "console", "log format: console or json")

	if err = fs.Parse(args); err != nil {
		return
	}
	cfg.args = fs.Args()

	return
}

// newLogger builds a zap logger writing to stderr so stdout only carries
// results
func newLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.Encoding = strings.ToLower(format)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.DisableStacktrace = true

	return zapCfg.Build()
}

// convertAll converts each timestamp and writes one line per success.
// Failures are logged and the count of failures is returned.
func convertAll(inputs []string, stdout io.Writer, logger *zap.Logger) (failed int) {
	w := bufio.NewWriter(stdout)
	defer w.Flush()

	for _, in := range inputs {
		n, err := epochnanos.Convert(in)
		if err != nil {
			failed++
			logger.Error("timestamp conversion failed", zap.String("input", in), zap.Error(err))
			continue
		}
		logger.Debug("converted timestamp", zap.String("input", in), zap.Stringer("nanos", n))

		w.WriteString(in)
		w.WriteByte('\t')
		w.WriteString(n.String())
		w.WriteByte('\n')
	}

	return
}

// readLines returns the non-empty trimmed lines of r
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// translateQuote translates a single record or a batch read from stdin
func translateQuote(stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}

	var probe struct {
		Prices json.RawMessage `json:"prices"`
	}
	if err = json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var out []byte
	if probe.Prices != nil {
		raw, err := quote.DecodePricesResponse(data)
		if err != nil {
			return err
		}
		resp, err := quote.TranslateAll(raw)
		if err != nil {
			return err
		}
		logger.Debug("translated price records", zap.Int("count", len(resp.Prices)))
		if out, err = quote.Encode(resp); err != nil {
			return err
		}
	} else {
		raw, err := quote.DecodePriceResponse(data)
		if err != nil {
			return err
		}
		resp, err := quote.Translate(raw)
		if err != nil {
			return err
		}
		logger.Debug("translated price record", zap.Uint64("id", resp.ID))
		if out, err = quote.Encode(resp); err != nil {
			return err
		}
	}

	out = append(out, '\n')
	_, err = stdout.Write(out)

	return err
}

// run is main without the process exit, returning the exit status
func run(cfg config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) int {
	if cfg.quote {
		if err := translateQuote(stdin, stdout, logger); err != nil {
			if quote.IsTimestampError(err) {
				logger.Error("block timestamp conversion failed", zap.Error(err))
			} else {
				logger.Error("price record translation failed", zap.Error(err))
			}
			return 1
		}
		return 0
	}

	inputs := cfg.args
	if len(inputs) == 0 {
		var err error
		if inputs, err = readLines(stdin); err != nil {
			logger.Error("reading stdin failed", zap.Error(err))
			return 1
		}
	}

	if failed := convertAll(inputs, stdout, logger); failed > 0 {
		logger.Warn("some timestamps were not converted", zap.Int("failed", failed), zap.Int("total", len(inputs)))
		return 1
	}

	return 0
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	logger, err := newLogger(cfg.logLevel, cfg.logFormat)
	if err != nil {
		os.Stderr.WriteString("epochnanos: " + err.Error() + "\n")
		os.Exit(2)
	}
	status := run(cfg, os.Stdin, os.Stdout, logger)
	logger.Sync()
	os.Exit(status)
}
