package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	formpresenter "github.com/goliatone/go-formpresenter"
	"github.com/goliatone/go-formpresenter/pkg/tui"
)

const ordersDocument = `
openapi: 3.0.3
info:
  title: Orders
  version: 1.0.0
paths:
  /orders:
    post:
      operationId: createOrder
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [amount]
              properties:
                amount: {type: number}
                type: {type: string, enum: [card, sbp]}
      responses:
        "201":
          description: created
`

func execute(t *testing.T, args []string, sessionOpts ...tui.Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, sessionOpts...)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, []string{"list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "order\tNew order\nprovider\tNew provider\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("list output mismatch (-want +got):\n%s", diff)
	}
}

func TestInspect_SetOverridesModel(t *testing.T) {
	out, err := execute(t, []string{"inspect", "order", "--visible-only", "--set", "type=sbp", "--set", "amount=250"})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var snapshot struct {
		Fields []struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}

	names := make([]string, 0, len(snapshot.Fields))
	values := map[string]any{}
	for _, f := range snapshot.Fields {
		names = append(names, f.Name)
		values[f.Name] = f.Value
	}
	wantNames := []string{"provider_id", "type", "bank_id", "amount", "sbp_phone", "submit"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
	if values["amount"] != 250.0 {
		t.Fatalf("amount override not applied: %v", values["amount"])
	}
}

func TestInspect_UnknownForm(t *testing.T) {
	if _, err := execute(t, []string{"inspect", "refund"}); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestInspect_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "forms")
	if err := os.Mkdir(defs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := "forms:\n  refund:\n    fields:\n      - reason|text\n      - submit|submit\n    model:\n      reason: \"\"\n"
	if err := os.WriteFile(filepath.Join(defs, "refund.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	cfgPath := filepath.Join(dir, "formpresenter.yaml")
	if err := os.WriteFile(cfgPath, []byte("model:\n  reason: duplicate charge\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMPRESENTER_DEFINITIONS", defs)

	out, err := execute(t, []string{"inspect", "refund", "--config", cfgPath})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, `"value": "duplicate charge"`) {
		t.Fatalf("config model not applied:\n%s", out)
	}
}

func TestInspect_MissingConfigFile(t *testing.T) {
	if _, err := execute(t, []string{"inspect", "order", "--config", filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Fatalf("expected error for an explicit missing config file")
	}
}

type scriptedPrompter struct {
	replies []tui.Answer
	err     error
}

func (p *scriptedPrompter) Ask(_ context.Context, q tui.Question) (tui.Answer, error) {
	if p.err != nil {
		return tui.Answer{}, p.err
	}
	if len(p.replies) == 0 {
		return tui.Answer{}, errors.New("no reply scripted for " + q.Field)
	}
	ans := p.replies[0]
	p.replies = p.replies[1:]
	return ans, nil
}

func TestRun_PrintsSubmittedValues(t *testing.T) {
	prompter := &scriptedPrompter{replies: []tui.Answer{
		{Index: 1},
		{Text: "7"},
		{Text: "250"},
		{Text: "+79990001122"},
	}}
	out, err := execute(t, []string{"run", "order"}, tui.WithPrompter(prompter))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var event struct {
		ID     string         `json:"id"`
		Values map[string]any `json:"values"`
	}
	if err := json.Unmarshal([]byte(out), &event); err != nil {
		t.Fatalf("decode event: %v\n%s", err, out)
	}
	if event.ID == "" {
		t.Fatalf("expected an event id")
	}
	want := map[string]any{"provider_id": 0.0, "type": "sbp", "bank_id": 7.0, "amount": 250.0, "sbp_phone": "+79990001122"}
	if diff := cmp.Diff(want, event.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Aborted(t *testing.T) {
	prompter := &scriptedPrompter{err: tui.ErrAborted}
	out, err := execute(t, []string{"run", "order"}, tui.WithPrompter(prompter))
	if err != nil {
		t.Fatalf("abort should not fail the command: %v", err)
	}
	if out != "" {
		t.Fatalf("aborted run printed output: %q", out)
	}
}

func TestOpenAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.yaml")
	if err := os.WriteFile(path, []byte(ordersDocument), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	out, err := execute(t, []string{"openapi", path})
	if err != nil {
		t.Fatalf("openapi list: %v", err)
	}
	if diff := cmp.Diff("createOrder\n", out); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}

	out, err = execute(t, []string{"openapi", path, "createOrder", "--submit-label", "Pay"})
	if err != nil {
		t.Fatalf("openapi descriptors: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three descriptors, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "amount|number") || !strings.HasPrefix(lines[1], "type|radio_group") {
		t.Fatalf("unexpected descriptor order: %q", lines)
	}
	if lines[2] != "submit|submit|label:Pay" {
		t.Fatalf("unexpected submit descriptor: %q", lines[2])
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"amount=250", "type=sbp", "active=true", "phone=+7999", "code=007", "note="})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]any{"amount": 250, "type": "sbp", "active": true, "phone": "+7999", "code": "007", "note": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseAssignments([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for a pair without '='")
	}
}

func TestCheck(t *testing.T) {
	out, err := execute(t, []string{"check"})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if out != "2 forms ok\n" {
		t.Fatalf("unexpected check output: %q", out)
	}

	dir := t.TempDir()
	doc := `forms:
  refund:
    fields:
      - amount|number
      - reason|text
    rules:
      - hide: reason
        relate: amount
        when: "amount =="
  note:
    fields:
      - text|textarea
`
	if err := os.WriteFile(filepath.Join(dir, "forms.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	_, err = execute(t, []string{"check", "--definitions", dir})
	if err == nil || !strings.Contains(err.Error(), "1 of 2 forms failed") {
		t.Fatalf("expected one failing form, got %v", err)
	}

	store, loadErr := formpresenter.LoadDefinitions(dir)
	if loadErr != nil {
		t.Fatalf("load definitions: %v", loadErr)
	}
	violations := checkStore(store)
	if len(violations) != 1 || violations[0].form != "refund" {
		t.Fatalf("unexpected violations: %+v", violations)
	}
}
