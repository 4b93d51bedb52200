// Command loadtest hammers a running livepoll server with concurrent
// votes from distinct sessions and reports what the server accepted.
//
// Point it at a live poll with voting open:
//
//	loadtest -server http://localhost:3525 -poll ABC234 -n 500 -c 32
//
// Every session votes once, so with N sessions the poll's tally for
// the target question should grow by exactly the accepted count. Run
// it twice with -reuse-sessions to verify duplicates are rejected.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/livepoll/livepoll/models"
)

type options struct {
	server       string
	pollID       string
	sessions     int
	concurrency  int
	questionIx   int
	optionCount  int
	reuseSession string
	watch        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.server, "server", "http://localhost:3525", "Base URL of the livepoll server")
	flag.StringVar(&opts.pollID, "poll", "", "Poll code to vote on (required)")
	flag.IntVar(&opts.sessions, "n", 100, "Number of voting sessions")
	flag.IntVar(&opts.concurrency, "c", 16, "Concurrent workers")
	flag.IntVar(&opts.questionIx, "q", 0, "Question index to vote on")
	flag.IntVar(&opts.optionCount, "options", 2, "Number of options to spread votes across")
	flag.StringVar(&opts.reuseSession, "reuse-sessions", "", "Fixed session id prefix; reruns then collide on purpose")
	flag.BoolVar(&opts.watch, "watch", false, "Also subscribe to the live stream and count pushed updates")
	flag.Parse()

	if opts.pollID == "" {
		fmt.Fprintln(os.Stderr, "loadtest: -poll is required (create one with POST /polls and start it)")
		flag.Usage()
		os.Exit(2)
	}

	slog.Info("starting load test",
		"server", opts.server,
		"poll", opts.pollID,
		"sessions", humanize.Comma(int64(opts.sessions)),
		"workers", opts.concurrency,
	)

	var accepted, duplicate, rejected, failed, pushed atomic.Int64

	stopWatch := func() {}
	if opts.watch {
		var err error
		stopWatch, err = watchLive(opts, &pushed)
		if err != nil {
			slog.Error("live subscribe failed", "error", err)
			os.Exit(1)
		}
	}

	client := &http.Client{Timeout: 15 * time.Second}
	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < opts.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sessionID := "s_" + uuid.NewString()
				if opts.reuseSession != "" {
					sessionID = fmt.Sprintf("%s-%d", opts.reuseSession, i)
				}
				switch castVote(client, opts, sessionID, rand.Intn(opts.optionCount)) {
				case http.StatusCreated:
					accepted.Add(1)
				case http.StatusConflict:
					duplicate.Add(1)
				case 0:
					failed.Add(1)
				default:
					rejected.Add(1)
				}
			}
		}()
	}

	for i := 0; i < opts.sessions; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	elapsed := time.Since(start)
	stopWatch()

	total := int64(opts.sessions)
	rate := float64(total) / elapsed.Seconds()

	fmt.Printf("\n%s votes in %s (%s votes/sec)\n",
		humanize.Comma(total), elapsed.Round(time.Millisecond), humanize.CommafWithDigits(rate, 1))
	fmt.Printf("  accepted:   %s\n", humanize.Comma(accepted.Load()))
	fmt.Printf("  duplicate:  %s\n", humanize.Comma(duplicate.Load()))
	fmt.Printf("  rejected:   %s\n", humanize.Comma(rejected.Load()))
	fmt.Printf("  failed:     %s\n", humanize.Comma(failed.Load()))
	if opts.watch {
		fmt.Printf("  live pushes observed: %s\n", humanize.Comma(pushed.Load()))
	}

	if failed.Load() > 0 {
		os.Exit(1)
	}
}

// watchLive subscribes to the poll's live stream as a dashboard viewer
// and counts pushed state messages until the returned stop function is
// called. Lagging drops are expected under load; the counter simply
// stops growing when the server cuts us off.
func watchLive(opts options, pushed *atomic.Int64) (stop func(), err error) {
	wsURL := strings.Replace(opts.server, "http", "ws", 1)
	conn, _, err := websocket.DefaultDialer.Dial(
		fmt.Sprintf("%s/polls/%s/live?role=dashboard", wsURL, opts.pollID), nil)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			pushed.Add(1)
		}
	}()

	return func() { conn.Close() }, nil
}

// castVote sends one vote and returns the HTTP status, or 0 when the
// request never completed.
func castVote(client *http.Client, opts options, sessionID string, optionIx int) int {
	body, _ := json.Marshal(models.CastVoteRequest{
		QuestionIndex: opts.questionIx,
		OptionIndex:   optionIx,
	})

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/polls/%s/votes", opts.server, opts.pollID), bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build request", "error", err)
		return 0
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", sessionID)

	resp, err := client.Do(req)
	if err != nil {
		slog.Error("vote request failed", "error", err)
		return 0
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}
