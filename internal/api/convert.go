package api

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/mirador-jobdoctor/internal/models"
)

// Largest run time that survives the float64 round trip of a Struct number.
const maxExactRunTimeMs = 1 << 53

// Evaluation is the decoded form of an Evaluate response.
type Evaluation struct {
	ID     string
	JobID  string
	Result models.HeuristicResult
}

// FromProtoEvaluateRequest maps an Evaluate request onto JobData.
//
//	{"job_id": "job_1", "reducers": [{"task_id": "r_0", "run_time_ms": 30000}, {"task_id": "r_1"}]}
//
// A reducer is timed iff run_time_ms is present and not null.
func FromProtoEvaluateRequest(req *structpb.Struct) (models.JobData, error) {
	if req == nil {
		return models.JobData{}, fmt.Errorf("request is nil")
	}
	fields := req.GetFields()

	var job models.JobData
	id, err := optionalString(fields, "job_id")
	if err != nil {
		return models.JobData{}, err
	}
	job.ID = id

	reducers, ok := fields["reducers"]
	if !ok || isNull(reducers) {
		return job, nil
	}
	list := reducers.GetListValue()
	if list == nil {
		return models.JobData{}, fmt.Errorf("reducers must be a list")
	}

	job.Reducers = make([]models.TaskData, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		task, err := taskFromValue(item)
		if err != nil {
			return models.JobData{}, fmt.Errorf("reducers[%d]: %w", i, err)
		}
		job.Reducers = append(job.Reducers, task)
	}
	return job, nil
}

// ToProtoEvaluateRequest is the client-side inverse of FromProtoEvaluateRequest.
func ToProtoEvaluateRequest(job models.JobData) (*structpb.Struct, error) {
	reducers := make([]interface{}, 0, len(job.Reducers))
	for _, task := range job.Reducers {
		entry := map[string]interface{}{"task_id": task.ID}
		if ms, ok := task.RunTimeMs(); ok {
			entry["run_time_ms"] = ms
		}
		reducers = append(reducers, entry)
	}
	return structpb.NewStruct(map[string]interface{}{
		"job_id":   job.ID,
		"reducers": reducers,
	})
}

// ToProtoEvaluation encodes a heuristic verdict as an Evaluate response.
func ToProtoEvaluation(evaluationID, jobID string, res models.HeuristicResult) (*structpb.Struct, error) {
	details := make([]interface{}, 0, len(res.Details))
	for _, d := range res.Details {
		details = append(details, map[string]interface{}{"name": d.Name, "value": d.Value})
	}
	return structpb.NewStruct(map[string]interface{}{
		"evaluation_id": evaluationID,
		"job_id":        jobID,
		"heuristic":     res.Name,
		"severity":      res.Severity.String(),
		"severity_rank": int(res.Severity),
		"details":       details,
	})
}

// FromProtoEvaluation decodes an Evaluate response.
func FromProtoEvaluation(resp *structpb.Struct) (Evaluation, error) {
	if resp == nil {
		return Evaluation{}, fmt.Errorf("response is nil")
	}
	fields := resp.GetFields()

	var out Evaluation
	var err error
	if out.ID, err = optionalString(fields, "evaluation_id"); err != nil {
		return Evaluation{}, err
	}
	if out.JobID, err = optionalString(fields, "job_id"); err != nil {
		return Evaluation{}, err
	}
	if out.Result.Name, err = optionalString(fields, "heuristic"); err != nil {
		return Evaluation{}, err
	}

	rank, ok := fields["severity_rank"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return Evaluation{}, fmt.Errorf("severity_rank must be a number")
	}
	sev := models.Severity(rank.NumberValue)
	if float64(sev) != rank.NumberValue || sev.String() == "UNKNOWN" {
		return Evaluation{}, fmt.Errorf("severity_rank %v out of range", rank.NumberValue)
	}
	out.Result.Severity = sev

	for i, item := range fields["details"].GetListValue().GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			return Evaluation{}, fmt.Errorf("details[%d] must be an object", i)
		}
		name, err := optionalString(obj.GetFields(), "name")
		if err != nil {
			return Evaluation{}, fmt.Errorf("details[%d]: %w", i, err)
		}
		value, err := optionalString(obj.GetFields(), "value")
		if err != nil {
			return Evaluation{}, fmt.Errorf("details[%d]: %w", i, err)
		}
		out.Result.AddDetail(name, value)
	}
	return out, nil
}

func taskFromValue(v *structpb.Value) (models.TaskData, error) {
	obj := v.GetStructValue()
	if obj == nil {
		return models.TaskData{}, fmt.Errorf("must be an object")
	}
	fields := obj.GetFields()

	var task models.TaskData
	id, err := optionalString(fields, "task_id")
	if err != nil {
		return models.TaskData{}, err
	}
	task.ID = id

	rt, ok := fields["run_time_ms"]
	if !ok || isNull(rt) {
		return task, nil
	}
	num, ok := rt.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return models.TaskData{}, fmt.Errorf("run_time_ms must be a number")
	}
	ms := num.NumberValue
	if ms < 0 || ms != math.Trunc(ms) || ms > maxExactRunTimeMs {
		return models.TaskData{}, fmt.Errorf("run_time_ms must be a non-negative whole number, got %v", ms)
	}
	task.Timed = true
	task.TotalRunTimeMs = int64(ms)
	return task, nil
}

func optionalString(fields map[string]*structpb.Value, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s.StringValue, nil
}

func isNull(v *structpb.Value) bool {
	if v.GetKind() == nil {
		return true
	}
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}
