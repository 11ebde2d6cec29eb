// Command gochanctl is a small interactive/benchmark harness around the
// gochan package: a convenience tool for exercising Create/Send/Receive/
// Close/Select from a terminal, structured the way cmd/geth-style binaries
// in go-ethereum compose an urfave/cli App out of Commands. It is not part
// of the gochan package's API surface.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kevink2022/gochan"
	"github.com/kevink2022/gochan/internal/xlog"
)

func main() {
	app := &cli.App{
		Name:  "gochanctl",
		Usage: "exercise gochan channels, select, and close from the command line",
		Commands: []*cli.Command{
			sendCommand(),
			recvCommand(),
			closeCommand(),
			benchCommand(),
			demoCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		xlog.Error("gochanctl failed", "err", err)
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func capFlag() *cli.IntFlag {
	return &cli.IntFlag{Name: "cap", Usage: "channel capacity", Value: 1}
}

func nameFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "name", Usage: "channel name within this run's registry", Value: "default"}
}

func timeoutFlag() *cli.DurationFlag {
	return &cli.DurationFlag{Name: "delay", Usage: "delay before the counterpart goroutine acts", Value: 500 * time.Millisecond}
}

func statusString(s gochan.Status) string {
	switch s {
	case gochan.Success:
		return color.GreenString(s.String())
	case gochan.ClosedError, gochan.DestroyError, gochan.GenError:
		return color.RedString(s.String())
	default:
		return color.YellowString(s.String())
	}
}

// sendCommand pairs a Send with a receiver that only starts reading after
// --delay. The fresh channel always has room for the one value (--cap is at
// least 1), so the send completes at once and the receiver picks the value
// up after the delay.
func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "send one value into a fresh named channel, spawning a delayed receiver",
		Flags: []cli.Flag{capFlag(), nameFlag(), timeoutFlag(),
			&cli.StringFlag{Name: "value", Usage: "value to send", Value: "hello"}},
		Action: func(c *cli.Context) error {
			r := newRegistry()
			ch, err := r.getOrCreate(c.String("name"), c.Int("cap"))
			if err != nil {
				return err
			}

			done := make(chan interface{}, 1)
			go func() {
				time.Sleep(c.Duration("delay"))
				v, _ := gochan.Receive(ch)
				done <- v
			}()

			status := gochan.Send(ch, c.String("value"))
			fmt.Printf("send: %s\n", statusString(status))
			fmt.Printf("received downstream: %v\n", <-done)
			return nil
		},
	}
}

// recvCommand is send's mirror: it blocks on Receive against a channel a
// delayed goroutine sends into.
func recvCommand() *cli.Command {
	return &cli.Command{
		Name:  "recv",
		Usage: "block receiving from a fresh named channel, spawning a delayed sender",
		Flags: []cli.Flag{capFlag(), nameFlag(), timeoutFlag(),
			&cli.StringFlag{Name: "value", Usage: "value the delayed sender deposits", Value: "hello"}},
		Action: func(c *cli.Context) error {
			r := newRegistry()
			ch, err := r.getOrCreate(c.String("name"), c.Int("cap"))
			if err != nil {
				return err
			}

			go func() {
				time.Sleep(c.Duration("delay"))
				gochan.Send(ch, c.String("value"))
			}()

			v, status := gochan.Receive(ch)
			fmt.Printf("recv: %s value=%v\n", statusString(status), v)
			return nil
		},
	}
}

// closeCommand parks a handful of blocked senders against a full channel
// and then closes it, printing the ClosedError every one of them observes.
func closeCommand() *cli.Command {
	return &cli.Command{
		Name:  "close",
		Usage: "close a channel with several blocked senders parked on it",
		Flags: []cli.Flag{capFlag(), nameFlag(),
			&cli.IntFlag{Name: "waiters", Usage: "number of goroutines to block on Send before closing", Value: 3}},
		Action: func(c *cli.Context) error {
			r := newRegistry()
			ch, err := r.getOrCreate(c.String("name"), c.Int("cap"))
			if err != nil {
				return err
			}
			for i := 0; i < c.Int("cap"); i++ {
				gochan.NonBlockingSend(ch, "filler")
			}

			waiters := c.Int("waiters")
			results := make(chan gochan.Status, waiters)
			for i := 0; i < waiters; i++ {
				i := i
				go func() {
					results <- gochan.Send(ch, fmt.Sprintf("blocked-%d", i))
				}()
			}

			time.Sleep(200 * time.Millisecond)
			fmt.Printf("close: %s\n", statusString(gochan.Close(ch)))
			for i := 0; i < waiters; i++ {
				fmt.Printf("  waiter %d woken with: %s\n", i, statusString(<-results))
			}
			return nil
		},
	}
}

// benchCommand drives a producer/consumer fleet across a single channel and
// reports delivered throughput. Goroutine lifecycle is managed with
// errgroup.Group, whose Wait reports the first unexpected error; the
// remaining goroutines are not cancelled.
func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "benchmark throughput of producers and consumers sharing one channel",
		Flags: []cli.Flag{capFlag(),
			&cli.IntFlag{Name: "producers", Value: 4},
			&cli.IntFlag{Name: "consumers", Value: 4},
			&cli.IntFlag{Name: "messages", Usage: "total messages sent across all producers", Value: 100000}},
		Action: func(c *cli.Context) error {
			ch, err := gochan.Create(c.Int("cap"))
			if err != nil {
				return err
			}
			total := c.Int("messages")
			producers := c.Int("producers")
			consumers := c.Int("consumers")

			g, _ := errgroup.WithContext(context.Background())
			start := time.Now()

			perProducer := total / producers
			for p := 0; p < producers; p++ {
				n := perProducer
				if p == producers-1 {
					n = total - perProducer*(producers-1)
				}
				g.Go(func() error {
					for i := 0; i < n; i++ {
						if status := gochan.Send(ch, i); status != gochan.Success {
							return fmt.Errorf("send returned %s", status)
						}
					}
					return nil
				})
			}

			delivered := make(chan int, consumers)
			for cIdx := 0; cIdx < consumers; cIdx++ {
				share := total / consumers
				if cIdx == consumers-1 {
					share = total - share*(consumers-1)
				}
				g.Go(func() error {
					count := 0
					for count < share {
						_, status := gochan.Receive(ch)
						if status != gochan.Success {
							return fmt.Errorf("receive returned %s", status)
						}
						count++
					}
					delivered <- count
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}
			close(delivered)
			sum := 0
			for n := range delivered {
				sum += n
			}
			elapsed := time.Since(start)
			fmt.Printf("delivered %d messages in %s (%.0f msg/s)\n", sum, elapsed, float64(sum)/elapsed.Seconds())
			return nil
		},
	}
}

// demoCommand is a canned, narrated walkthrough of the full API surface:
// buffered send/receive, a blocking wakeup, select across two channels,
// and the close/destroy lifecycle.
func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "run a narrated walkthrough of Create/Send/Receive/Select/Close/Destroy",
		Action: func(c *cli.Context) error {
			r := newRegistry()

			a, err := r.getOrCreate("a", 1)
			if err != nil {
				return err
			}
			b, err := r.getOrCreate("b", 1)
			if err != nil {
				return err
			}
			fmt.Printf("registered channels: %v\n", r.names())

			fmt.Println(color.CyanString("1. buffered round trip"))
			fmt.Printf("   send a<-\"x\": %s\n", statusString(gochan.NonBlockingSend(a, "x")))
			v, status := gochan.NonBlockingReceive(a)
			fmt.Printf("   recv a: %s value=%v\n", statusString(status), v)

			fmt.Println(color.CyanString("2. select across two channels, only b ready"))
			gochan.NonBlockingSend(b, "from-b")
			idx, status, val := gochan.SelectValues([]gochan.SelectCase{
				{Channel: a, Direction: gochan.SelectRecv},
				{Channel: b, Direction: gochan.SelectRecv},
			})
			fmt.Printf("   select: case=%d %s value=%v\n", idx, statusString(status), val)

			fmt.Println(color.CyanString("3. close wakes a blocked receiver"))
			recvDone := make(chan gochan.Status, 1)
			go func() {
				_, s := gochan.Receive(a)
				recvDone <- s
			}()
			time.Sleep(200 * time.Millisecond)
			gochan.Close(a)
			fmt.Printf("   blocked receive woken with: %s\n", statusString(<-recvDone))

			fmt.Println(color.CyanString("4. destroy requires close first"))
			fmt.Printf("   destroy b before close: %s\n", statusString(gochan.Destroy(b)))
			gochan.Close(b)
			fmt.Printf("   destroy b after close:  %s\n", statusString(gochan.Destroy(b)))

			return nil
		},
	}
}
