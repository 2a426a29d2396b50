package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gramiojs/callback-data/pkg/callbackdata"
	"github.com/gramiojs/callback-data/pkg/compact"
	"github.com/gramiojs/callback-data/pkg/schema"
	"github.com/gramiojs/callback-data/pkg/util/merr"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		schemaName string
		legacy     bool
	)
	cmd := &cobra.Command{
		Use:   "encode key=value...",
		Short: "Pack values with a configured schema",
		Example: `  callbackdata encode -c callbackdata.yaml --schema orders id=42 status=paid
  callbackdata encode -c callbackdata.yaml --schema orders --legacy id=42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaName == "" {
				return merr.WrapErrParameterMissing("--schema")
			}
			cd, err := a.cfg.CallbackData(schemaName)
			if err != nil {
				return err
			}
			values, err := parseAssignments(cd, args)
			if err != nil {
				return err
			}

			var payload string
			if legacy {
				payload, err = cd.PackLegacy(values)
			} else {
				payload, err = cd.Pack(values)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "schema name from the config file")
	cmd.Flags().BoolVar(&legacy, "legacy", false, "produce a legacy <id>|<json> payload")
	return cmd
}

// parseAssignments 将 key=value 参数按字段类型转换为 Values。
func parseAssignments(cd *callbackdata.CallbackData, args []string) (compact.Values, error) {
	values := make(compact.Values, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, merr.WrapErrParameterInvalidMsg("expected key=value, got %q", arg)
		}
		f, _, ok := cd.Schema().Field(key)
		if !ok {
			return nil, merr.WrapErrParameterInvalidMsg("schema %s has no field %q", cd.Name(), key)
		}
		v, err := parseFieldValue(f, raw)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}
	return values, nil
}

func parseFieldValue(f schema.Field, raw string) (any, error) {
	switch f.Type {
	case schema.TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "number", raw)
		}
		return n, nil
	case schema.TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, merr.WrapErrInvalidFieldValue(f.Key, "boolean", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
