package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/cellwave"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	iterationsKey = "iterations"
	maxSizeKey    = "max-size"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure cellwave propagation latency across graph shapes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  iterationsKey,
				Usage: "Writes per graph shape",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  maxSizeKey,
				Usage: "Largest width/height in the shape grid",
				Value: 1_000,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(iterationsKey))
	maxSize := int(cmd.Int(maxSizeKey))

	sizes := []int{}
	for s := 1; s <= maxSize; s *= 10 {
		sizes = append(sizes, s)
	}

	log.Printf("propagating %s writes per shape", humanize.Comma(int64(iters)))

	tbl := table.NewWriter()
	tbl.SetTitle("cellwave propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	readAny := func(x any) int {
		switch x := x.(type) {
		case *cellwave.Cell[int]:
			return x.Read()
		case *cellwave.Computed[int]:
			return x.MustGet()
		default:
			panic("unknown node type")
		}
	}

	for _, w := range sizes {
		for _, h := range sizes {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := cellwave.NewSystem(func(from cellwave.Node, err error) {
				log.Panic(err)
			})
			src := cellwave.NewCell(sys, 1)
			for i := 0; i < w; i++ {
				var last any = src
				for j := 0; j < h; j++ {
					prev := last
					last = cellwave.NewComputed(sys, func() (int, error) {
						return readAny(prev) + 1, nil
					})
				}
				leaf := last
				cellwave.NewReaction(sys, func() error {
					readAny(leaf)
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}
