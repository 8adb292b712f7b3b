package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"symcirc/pkg/analysis"
	"symcirc/pkg/circuit"
	"symcirc/pkg/device"
	"symcirc/pkg/symbolic"
	"symcirc/pkg/util"
)

// createCircuit builds an RC low-pass with symbolic element values:
// V1 drives node "in", R couples it to "out", C loads "out".
func createCircuit() (*circuit.SubCircuit, error) {
	ckt := circuit.New()
	in, out := ckt.AddNode("in"), ckt.AddNode("out")

	if err := ckt.Set("V1", device.NewVoltageSource(in, circuit.Gnd, symbolic.One())); err != nil {
		return nil, err
	}
	if err := ckt.Set("R1", device.NewResistor(in, out, symbolic.Symbol("R"))); err != nil {
		return nil, err
	}
	if err := ckt.Set("C1", device.NewCapacitor(out, circuit.Gnd, symbolic.Symbol("C"))); err != nil {
		return nil, err
	}
	return ckt, nil
}

func printResults(results map[string][]float64) {
	freqs := results["FREQ"]

	var names []string
	for name := range results {
		if strings.HasSuffix(name, "_MAG") {
			names = append(names, strings.TrimSuffix(name, "_MAG"))
		}
	}
	sort.Strings(names)

	fmt.Printf("\nAC Analysis Results (%d frequency points):\n", len(freqs))
	fmt.Println("Frequency      Magnitude/Phase")
	fmt.Println("------------------------------------------------------------")
	for i, freq := range freqs {
		fmt.Printf("%s ", util.FormatFrequency(freq))
		for _, name := range names {
			mag := results[name+"_MAG"][i]
			phase := results[name+"_PHASE"][i]
			fmt.Printf(" %s=%s<%sdeg", name, util.FormatMagnitude(mag), util.FormatPhase(phase))
		}
		fmt.Println()
	}
}

func writeBodePlot(results map[string][]float64, variable, filename string) error {
	freqs := results["FREQ"]
	mags, ok := results[variable+"_MAG"]
	if !ok {
		return fmt.Errorf("no swept variable %q", variable)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Bode magnitude, %s", variable)
	p.X.Label.Text = "Frequency (Hz)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Label.Text = "Magnitude (dB)"

	pts := make(plotter.XYs, len(freqs))
	for i := range freqs {
		pts[i].X = freqs[i]
		pts[i].Y = 20 * math.Log10(mags[i])
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

func main() {
	rVal := flag.Float64("r", 1e3, "resistance (ohm)")
	cVal := flag.Float64("c", 1e-6, "capacitance (F)")
	fStart := flag.Float64("fstart", 1.0, "sweep start frequency (Hz)")
	fStop := flag.Float64("fstop", 1e5, "sweep stop frequency (Hz)")
	nPoints := flag.Int("n", 21, "number of sweep points")
	pType := flag.String("type", "DEC", "sweep type: DEC, OCT or LIN")
	plotFile := flag.String("plot", "", "write a Bode magnitude plot to this PNG file")
	flag.Parse()

	ckt, err := createCircuit()
	if err != nil {
		log.Fatalf("building circuit: %v", err)
	}

	// symbolic transfer function first
	res, err := analysis.NewSymbolicAC(ckt).Solve(symbolic.Symbol("s"), true)
	if err != nil {
		log.Fatalf("symbolic solve: %v", err)
	}
	vout, err := res.V("out")
	if err != nil {
		log.Fatalf("querying output: %v", err)
	}
	iin, err := res.I("V1.plus")
	if err != nil {
		log.Fatalf("querying source current: %v", err)
	}
	fmt.Printf("V(out) = %s\n", vout)
	fmt.Printf("I(V1.plus) = %s\n", iin)

	// numeric sweep of the same system
	ac := analysis.NewAC(*fStart, *fStop, *nPoints, *pType)
	if err := ac.Setup(ckt); err != nil {
		log.Fatalf("ac setup: %v", err)
	}
	bindings := map[string]complex128{
		"R": complex(*rVal, 0),
		"C": complex(*cVal, 0),
	}
	if err := ac.Execute(bindings); err != nil {
		log.Fatalf("ac sweep: %v", err)
	}
	printResults(ac.GetResults())

	fc := 1 / (2 * math.Pi * *rVal * *cVal)
	fmt.Printf("\nCorner frequency: %s\n", util.FormatFrequency(fc))

	if *plotFile != "" {
		if err := writeBodePlot(ac.GetResults(), "V(out)", *plotFile); err != nil {
			log.Fatalf("writing plot: %v", err)
		}
		fmt.Printf("Wrote %s\n", *plotFile)
	}
}
