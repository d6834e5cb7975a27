package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/cellwave"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// Each scenario stands up a fleet of independent sessions, every session a
// system of its own with polling reactions mirroring a shared config value.
// The clock is virtual so the soak runs as fast as the engine can flush.
type soakConfig struct {
	name     string
	sessions int
	cells    int
	ticks    int
	interval time.Duration
}

func main() {
	log.Print("Starting cellwave soak, please wait...")
	defer log.Print("Finished cellwave soak")

	cfgs := []soakConfig{
		{name: "single session", sessions: 1, cells: 100, ticks: 10_000, interval: 250 * time.Millisecond},
		{name: "small fleet", sessions: 10, cells: 100, ticks: 2_000, interval: 250 * time.Millisecond},
		{name: "wide fleet", sessions: 100, cells: 10, ticks: 500, interval: 250 * time.Millisecond},
		{name: "chatty pollers", sessions: 10, cells: 10, ticks: 20_000, interval: 50 * time.Millisecond},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"scenario", "sessions", "cells", "ticks", "polls", "polls/ms", "time",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' scenario", cfg.name)
		polls, elapsed := runScenario(cfg)
		rate := float64(polls) / (float64(elapsed) / float64(time.Millisecond))
		table.Append([]string{
			cfg.name,
			fmt.Sprint(cfg.sessions),
			humanize.Comma(int64(cfg.cells)),
			humanize.Comma(int64(cfg.ticks)),
			humanize.Comma(polls),
			humanize.Comma(int64(rate)),
			fmt.Sprint(elapsed),
		})
	}

	table.Render()
}

type session struct {
	sys   *cellwave.System
	clock time.Time
}

func runScenario(cfg soakConfig) (polls int64, elapsed time.Duration) {
	shared := cellwave.NewSharedValue(0)

	sessions := make([]*session, cfg.sessions)
	for i := range sessions {
		sess := &session{clock: time.Unix(0, 0)}
		sess.sys = cellwave.NewSystem(func(from cellwave.Node, err error) {
			log.Panic(err)
		}, cellwave.WithClock(func() time.Time {
			return sess.clock
		}))
		sessions[i] = sess

		mirror := cellwave.MirrorEq(shared, sess.sys)
		total := cellwave.NewCell(sess.sys, 0, cellwave.Named("total"))

		cells := make([]*cellwave.Cell[int], cfg.cells)
		for j := range cells {
			cells[j] = cellwave.NewCell(sess.sys, j)
		}
		sum := cellwave.NewComputed(sess.sys, func() (int, error) {
			s := mirror.Cell().Read()
			for _, c := range cells {
				s += c.Read()
			}
			return s, nil
		})

		var poller *cellwave.Reaction
		poller = cellwave.NewReaction(sess.sys, func() error {
			mirror.Sync()
			v, err := sum.Get()
			if err != nil {
				return err
			}
			total.Set(total.Peek() + v)
			polls++
			if poller != nil {
				poller.RearmAfter(cfg.interval)
			}
			return nil
		})
		poller.RearmAfter(cfg.interval)
	}

	start := time.Now()
	for i := 0; i < cfg.ticks; i++ {
		if i%100 == 0 {
			shared.Set(i)
		}
		for _, sess := range sessions {
			sess.clock = sess.clock.Add(cfg.interval)
			sess.sys.Tick()
		}
	}
	return polls, time.Since(start)
}
