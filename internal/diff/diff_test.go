package diff

import (
	"strings"
	"testing"

	"ccdd-pack/internal/structure"
)

func sample() []structure.Table {
	return []structure.Table{{
		Name:      "HK",
		MessageID: "0x0810",
		Rows: []structure.Row{
			{VariableName: "a", DataType: "uint8_t", BitLength: "3"},
			{VariableName: "b", DataType: "uint8_t", BitLength: "5"},
		},
	}}
}

func TestTableText(t *testing.T) {
	got := TableText(sample()[0])
	want := "table HK\n" +
		"  messageID=\"0x0810\"\n" +
		"  row VariableName=\"a\" DataType=\"uint8_t\" BitLength=\"3\"\n" +
		"  row VariableName=\"b\" DataType=\"uint8_t\" BitLength=\"5\"\n"
	if got != want {
		t.Fatalf("TableText:\n%s\nwant:\n%s", got, want)
	}
}

func TestTablesEqual(t *testing.T) {
	if body, oversize := Tables("a", "b", sample(), sample(), Options{}); body != "" || oversize {
		t.Fatalf("expected no diff, got %q (oversize=%v)", body, oversize)
	}
}

func TestTablesChangedCell(t *testing.T) {
	b := sample()
	b[0].Rows[1].BitLength = "4"
	body, _ := Tables("project", "reimported", sample(), b, Options{})
	for _, want := range []string{
		"--- project\n",
		"+++ reimported\n",
		`-  row VariableName="b" DataType="uint8_t" BitLength="5"`,
		`+  row VariableName="b" DataType="uint8_t" BitLength="4"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("patch missing %q:\n%s", want, body)
		}
	}
}

func TestUnifiedOversize(t *testing.T) {
	body, oversize := Unified("a", "b", []byte("x\n"), []byte("y\n"), Options{MaxBytes: 2})
	if !oversize || !strings.Contains(body, "omitted") {
		t.Fatalf("got %q oversize=%v", body, oversize)
	}
}
