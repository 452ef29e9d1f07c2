package markov

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestToPortable(t *testing.T) {
	c := New(2).Train(catTokens)

	data, err := json.Marshal(c.ToPortable())
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	expected := `{"type":"markov-chain-base","n":2,"transitions":{"cat":[["sat",1],["ran",1]],"sat":[["the",1]],"the":[["cat",2]]}}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestPortableRoundTrip(t *testing.T) {
	c := New(3).Train([]string{"a", "b", "c", "a", "b", "d", "a", "b", "c"})

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var p Portable
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	c2 := New(3).FromPortable(&p)
	if !reflect.DeepEqual(c.ToPortable(), c2.ToPortable()) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", c2.ToPortable(), c.ToPortable())
	}
	if got, want := c2.Next([]string{"a", "b"}), []Transition{{Token: "c", Count: 2}, {Token: "d", Count: 1}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Next(a b) = %+v, want %+v", got, want)
	}
}

func TestChainUnmarshalJSON(t *testing.T) {
	data := []byte(`{"type":"markov-chain-base","n":3,"transitions":{"a b":[["c",4]]}}`)

	var c Chain
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.Order() != 3 {
		t.Errorf("expected order 3, got %d", c.Order())
	}
	if got, want := c.Next([]string{"a", "b"}), []Transition{{Token: "c", Count: 4}}; !reflect.DeepEqual(got, want) {
		t.Errorf("Next(a b) = %+v, want %+v", got, want)
	}
}

func TestFromPortableIgnoresForeignData(t *testing.T) {
	testCases := []struct {
		name string
		data *Portable
	}{
		{name: "Nil data", data: nil},
		{name: "Wrong type tag", data: &Portable{Type: "something-else", Order: 5, Transitions: Transitions{"x": {{Token: "y", Count: 1}}}}},
		{name: "Missing type tag", data: &Portable{Order: 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(2).Train(catTokens)
			before := c.ToPortable()
			c.FromPortable(tc.data)
			if !reflect.DeepEqual(before, c.ToPortable()) {
				t.Errorf("expected chain to be unchanged")
			}
		})
	}
}

func TestFromPortableAdoptsOrder(t *testing.T) {
	c := New(2).FromPortable(&Portable{Type: PortableType, Order: 4})
	if c.Order() != 4 {
		t.Errorf("expected order 4, got %d", c.Order())
	}

	c = New(2).FromPortable(&Portable{Type: PortableType})
	if c.Order() != 2 {
		t.Errorf("expected order to stay 2 when n is absent, got %d", c.Order())
	}
}

func TestTransitionUnmarshalErrors(t *testing.T) {
	testCases := []string{
		`["a"]`,
		`["a", 1, 2]`,
		`[1, 1]`,
		`["a", "b"]`,
		`{"token":"a"}`,
	}
	for _, input := range testCases {
		var tr Transition
		if err := json.Unmarshal([]byte(input), &tr); err == nil {
			t.Errorf("expected an error decoding %s", input)
		}
	}
}
