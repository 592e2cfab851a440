package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
)

// Client calls HeuristicService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Evaluate sends the job's reducers and decodes the verdict.
func (c *Client) Evaluate(ctx context.Context, job models.JobData, opts ...grpc.CallOption) (Evaluation, error) {
	req, err := ToProtoEvaluateRequest(job)
	if err != nil {
		return Evaluation{}, fmt.Errorf("encode request: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, EvaluateMethod, req, resp, opts...); err != nil {
		return Evaluation{}, err
	}
	return FromProtoEvaluation(resp)
}
