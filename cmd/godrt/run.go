package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/kacperjurak/godrt"
	"github.com/kacperjurak/godrt/internal/processing"
)

var flagDemo bool

var runCmd = &cobra.Command{
	Use:   "run [data file]",
	Short: "Compute the DRT of a single impedance spectrum",
	Long: "Reads a spectrum from a three-column text file (frequency, real part, " +
		"imaginary part; '#' starts a comment) and prints the recovered relaxation peaks.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			freqs []float64
			z     []complex128
			err   error
		)
		switch {
		case flagDemo:
			freqs, z = demoSpectrum()
		case len(args) == 1:
			freqs, z, err = parseSpectrumFile(args[0])
			if err != nil {
				return err
			}
		default:
			return eris.New("either a data file or --demo is required")
		}

		res, err := processing.New().Process(freqs, z, cfg)
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagDemo, "demo", false, "run on a synthetic two-process spectrum")
}

// demoSpectrum builds a noiseless spectrum of two Voigt elements with well
// separated time constants, spanning 10 mHz to 100 kHz.
func demoSpectrum() ([]float64, []complex128) {
	freqs := floats.LogSpan(make([]float64, 71), 1e-2, 1e5)
	z := godrt.VoigtImpedance(freqs, 10.0, []godrt.VoigtPair{
		{R: 50.0, Tau: 1e-1},
		{R: 30.0, Tau: 1e-3},
	})
	return freqs, z
}

func parseSpectrumFile(path string) ([]float64, []complex128, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "open spectrum file")
	}
	defer f.Close()

	var (
		freqs []float64
		z     []complex128
		line  int
	)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		// Accept comma- as well as whitespace-separated columns.
		fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
		if len(fields) < 3 {
			return nil, nil, eris.Errorf("line %d: expected 3 columns, got %d", line, len(fields))
		}
		var vals [3]float64
		for i := 0; i < 3; i++ {
			vals[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, nil, eris.Wrapf(err, "line %d: column %d", line, i+1)
			}
		}
		freqs = append(freqs, vals[0])
		z = append(z, complex(vals[1], vals[2]))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "read spectrum file")
	}
	if len(freqs) == 0 {
		return nil, nil, eris.New("spectrum file contains no data rows")
	}
	return freqs, z, nil
}

func printResult(cmd *cobra.Command, res godrt.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status:    %s\n", res.Status)
	fmt.Fprintf(out, "residual:  %.6g\n", res.Min)
	fmt.Fprintf(out, "R_inf:     %.6g\n", res.Rinf)
	fmt.Fprintf(out, "epsilon:   %.6g\n", res.Eps)
	fmt.Fprintf(out, "peaks:     %d\n", len(res.PeakTaus))
	if len(res.PeakTaus) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%-4s %-14s %-14s %-14s\n", "#", "tau [s]", "f [Hz]", "gamma")
	for i, tau := range res.PeakTaus {
		fmt.Fprintf(out, "%-4d %-14.6g %-14.6g %-14.6g\n",
			i+1, tau, 1.0/(2*math.Pi*tau), res.PeakGammas[i])
	}
}
