package openai

import (
	"errors"
	"strings"
	"testing"
)

func TestStreamSSEDecodesEvents(t *testing.T) {
	body := strings.Join([]string{
		": keep-alive",
		"event: response.output_text.delta",
		`data: {"type":"response.output_text.delta","delta":"Hello"}`,
		"",
		"event: response.output_text.delta",
		`data: {"type":"response.output_text.delta","delta":" world"}`,
		"",
		"data: [DONE]",
		"",
	}, "\n")

	var events []string
	var datas []string
	err := streamSSE(strings.NewReader(body), func(event, data string) error {
		events = append(events, event)
		datas = append(datas, data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %v", len(events), events)
	}
	if events[0] != "response.output_text.delta" {
		t.Fatalf("event[0] = %q", events[0])
	}
	if !strings.Contains(datas[1], `" world"`) {
		t.Fatalf("data[1] = %q", datas[1])
	}
	if datas[2] != "[DONE]" {
		t.Fatalf("data[2] = %q", datas[2])
	}
}

func TestStreamSSEJoinsMultilineData(t *testing.T) {
	body := "data: first\ndata: second\n\n"

	var got string
	err := streamSSE(strings.NewReader(body), func(_, data string) error {
		got = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "first\nsecond" {
		t.Fatalf("data = %q", got)
	}
}

func TestStreamSSEFlushesTrailingEventAtEOF(t *testing.T) {
	body := "data: tail" // no trailing blank line

	var calls int
	err := streamSSE(strings.NewReader(body), func(_, data string) error {
		calls++
		if data != "tail" {
			t.Fatalf("data = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestStreamSSESurfacesErrorFromFinalEvent(t *testing.T) {
	wantErr := errors.New("stream refused")
	// Final event ends at EOF with no trailing blank line.
	err := streamSSE(strings.NewReader("data: tail"), func(_, _ string) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestStreamSSEPropagatesCallbackError(t *testing.T) {
	wantErr := errors.New("refused")
	err := streamSSE(strings.NewReader("data: x\n\n"), func(_, _ string) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestExtractOutputText(t *testing.T) {
	resp := responsesResponse{}
	resp.Output = []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	}{
		{
			Type: "reasoning",
		},
		{
			Type: "message",
			Role: "assistant",
			Content: []struct {
				Type string `json:"type"`
				Text string `json:"text,omitempty"`
			}{
				{Type: "output_text", Text: "Part one. "},
				{Type: "output_text", Text: "Part two."},
			},
		},
	}

	if got := extractOutputText(resp); got != "Part one. Part two." {
		t.Fatalf("got %q", got)
	}
}
