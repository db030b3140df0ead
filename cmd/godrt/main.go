package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kacperjurak/godrt/pkg/config"
)

var (
	cfg       *config.Config
	serverCfg *config.ServerConfig

	cfgFile        string
	flagMethod     string
	flagOptimizer  string
	flagKernel     string
	flagLambda     float64
	flagWidthCoeff float64
	flagStrictness float64
	flagQuiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "godrt",
	Short: "Distribution of relaxation times from impedance spectra",
	Long:  "Computes the distribution of relaxation times (DRT) of electrochemical impedance spectra via RBF discretization with Tikhonov regularization and non-negative weights.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, sc, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg, serverCfg = c, sc

		// Explicit flags win over file and environment.
		f := cmd.Flags()
		if f.Changed("method") {
			cfg.Method = flagMethod
		}
		if f.Changed("optimizer") {
			cfg.Optimizer = flagOptimizer
		}
		if f.Changed("kernel") {
			cfg.Kernel = flagKernel
		}
		if f.Changed("lambda") {
			cfg.Lambda = flagLambda
		}
		if f.Changed("width-coeff") {
			cfg.WidthCoeff = flagWidthCoeff
		}
		if f.Changed("strictness") {
			cfg.PeakStrictness = flagStrictness
		}
		if f.Changed("quiet") {
			cfg.Quiet = flagQuiet
		}

		if err := config.InitLogger(cfg.Quiet); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file path")
	pf.StringVar(&flagMethod, "method", "im", "objective: im, re or re_im")
	pf.StringVar(&flagOptimizer, "optimizer", "lbfgs", "optimizer backend: lbfgs or lm")
	pf.StringVar(&flagKernel, "kernel", "gaussian", "RBF kernel: gaussian or inverse-quadratic")
	pf.Float64Var(&flagLambda, "lambda", 1e-2, "Tikhonov regularization strength")
	pf.Float64Var(&flagWidthCoeff, "width-coeff", 0.10, "RBF width coefficient")
	pf.Float64Var(&flagStrictness, "strictness", 0.01, "relative peak amplitude threshold")
	pf.BoolVar(&flagQuiet, "quiet", false, "log errors only")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
