package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gramiojs/callback-data/internal/json"
	"github.com/gramiojs/callback-data/pkg/callbackdata"
	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/log"
	"github.com/gramiojs/callback-data/pkg/util/conc"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

// decodeResult 为 decode 命令每行输出的结构。
type decodeResult struct {
	Payload string         `json:"payload"`
	Schema  string         `json:"schema,omitempty"`
	Values  compact.Values `json:"values,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func newDecodeCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "decode [payload...]",
		Short: "Decode payloads with the configured schemas",
		Long: `Decode routes every payload to the first configured schema whose identifier
matches it, then prints one JSON object per payload. Without arguments payloads
are read line by line from stdin and decoded concurrently; output order always
follows input order.`,
		Example: `  callbackdata decode -c callbackdata.yaml 'llhAOB16;1'
  cat payloads.txt | callbackdata decode -c callbackdata.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := a.router()
			if err != nil {
				return err
			}

			payloads := args
			if len(payloads) == 0 {
				payloads, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			var pool *conc.Pool[decodeResult]
			if workers > 0 {
				pool = conc.NewPool[decodeResult](workers)
			} else {
				pool = conc.NewDefaultPool[decodeResult]()
			}
			defer pool.Release()

			futures := make([]*conc.Future[decodeResult], 0, len(payloads))
			for _, payload := range payloads {
				payload := payload
				futures = append(futures, pool.Submit(func() (decodeResult, error) {
					return decodeOne(router, payload), nil
				}))
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, f := range futures {
				res, err := f.Await()
				if err != nil {
					return err
				}
				if res.Error != "" {
					failed++
					log.Ctx(cmd.Context()).Debug("decode failed", log.FieldPayload(res.Payload), zap.String("error", res.Error))
				}
				line, err := json.Marshal(res)
				if err != nil {
					line, _ = json.Marshal(decodeResult{Payload: res.Payload, Schema: res.Schema, Error: err.Error()})
				}
				fmt.Fprintln(out, string(line))
			}
			if failed > 0 {
				return errors.Newf("%d of %d payloads failed to decode", failed, len(payloads))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "decode concurrency, defaults to GOMAXPROCS")
	return cmd
}

// router 注册配置中的全部 schema，用于 payload 归属查找。
func (a *app) router() (callbackdata.Router, error) {
	all, err := a.cfg.BuildAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, merr.WrapErrParameterMissing("schemas", "config declares no schemas")
	}
	router := callbackdata.NewRouter()
	for _, cd := range all {
		if err := router.Register(cd, noopHandler); err != nil {
			return nil, err
		}
	}
	return router, nil
}

func noopHandler(_ context.Context, _ *callbackdata.CallbackData, _ compact.Values) error {
	return nil
}

func decodeOne(router callbackdata.Router, payload string) decodeResult {
	res := decodeResult{Payload: payload}
	cd, ok := router.Lookup(payload)
	if !ok {
		res.Error = merr.WrapErrRouteNotFound(payload).Error()
		return res
	}
	res.Schema = cd.Name()
	values, err := cd.Unpack(payload)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Values = values
	return res
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read payloads")
	}
	return lines, nil
}
