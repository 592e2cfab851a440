// Command evaluate-client sends a job file to a running jobdoctor server.
//
//	go run ./deployment/localdev/evaluate-client -addr localhost:50061 -job job.json
//
// job.json: {"id": "job_1", "reducers": [{"id": "r_0", "run_time_ms": 30000}, {"id": "r_1"}]}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/miradorstack/mirador-jobdoctor/internal/api"
	"github.com/miradorstack/mirador-jobdoctor/internal/models"
)

type jobFile struct {
	ID       string `json:"id"`
	Reducers []struct {
		ID        string `json:"id"`
		RunTimeMs *int64 `json:"run_time_ms"`
	} `json:"reducers"`
}

func main() {
	addr := flag.String("addr", "localhost:50061", "jobdoctor gRPC address")
	path := flag.String("job", "", "Path to a job JSON file")
	flag.Parse()

	if *path == "" {
		log.Fatal("-job is required")
	}
	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read job: %v", err)
	}
	var jf jobFile
	if err := json.Unmarshal(data, &jf); err != nil {
		log.Fatalf("parse job: %v", err)
	}

	job := models.JobData{ID: jf.ID}
	for _, r := range jf.Reducers {
		task := models.TaskData{ID: r.ID}
		if r.RunTimeMs != nil {
			task.Timed = true
			task.TotalRunTimeMs = *r.RunTimeMs
		}
		job.Reducers = append(job.Reducers, task)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eval, err := api.NewClient(conn).Evaluate(ctx, job)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	fmt.Printf("%s [%s] %s\n", eval.Result.Name, eval.Result.Severity, eval.ID)
	for _, d := range eval.Result.Details {
		fmt.Printf("  %s: %s\n", d.Name, d.Value)
	}
}
