package main

import (
	"github.com/spf13/cobra"

	"github.com/gramiojs/callback-data/internal/config"
	"github.com/gramiojs/callback-data/pkg/log"
)

// app 保存一次命令执行期间共享的状态。
type app struct {
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "callbackdata",
		Short: "Encode, decode and inspect compact callback-data payloads",
		Long: `callbackdata works with schema-driven callback payloads.

Schemas are declared in a YAML or JSON config file:

  schemas:
    - name: orders
      fields:
        - {key: id, type: number}
        - {key: status, type: enum, values: [new, paid], default: new}

Environment variables prefixed with CALLBACKDATA_ override log settings,
e.g. CALLBACKDATA_LOG_LEVEL=debug.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml or json)")

	root.AddCommand(
		newIDCmd(),
		newEncodeCmd(a),
		newDecodeCmd(a),
		newSchemasCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lg, props, err := log.InitLogger(&cfg.Log)
	if err != nil {
		return err
	}
	log.ReplaceGlobals(lg, props)
	log.Ctx(cmd.Context()).Debug("config loaded",
		log.FieldComponent(cmd.Name()),
		log.FieldModule("cli"))
	return nil
}
