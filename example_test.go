package gridcsv_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nao1215/gridcsv"
)

// ExampleSchema_ParseRow demonstrates parsing one raw row against a typed schema.
func ExampleSchema_ParseRow() {
	schema := gridcsv.NewSchema([]gridcsv.Column{
		{Name: "name", Type: gridcsv.TypeText, Required: true},
		{Name: "age", Type: gridcsv.TypeInteger},
	})

	record, err := schema.ParseRow(0, gridcsv.RawRow{"Ann", "34"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(record.Strings())

	// A short row leaves the optional age column null, rendered as "".
	record, err = schema.ParseRow(1, gridcsv.RawRow{"Bob"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(record.Strings())

	// Output:
	// [Ann 34]
	// [Bob ]
}

// ExampleConvert demonstrates a full run from an in-memory matrix to CSV on stdout.
func ExampleConvert() {
	src := gridcsv.NewStringMatrixSource([][]string{
		{"Name", "Score"},
		{"Ann", "34"},
		{"Bob", "7"},
	})
	sink := gridcsv.NewDelimitedSink(os.Stdout, gridcsv.OutputFormatCSV)

	opts := gridcsv.NewConvertOptions().
		WithHeader(true).
		WithOutputHeader(true).
		WithErrorPolicy(gridcsv.PolicyFail)

	if _, err := gridcsv.Convert(context.Background(), src, sink, opts); err != nil {
		log.Fatal(err)
	}

	// Output:
	// Name,Score
	// Ann,34
	// Bob,7
}
