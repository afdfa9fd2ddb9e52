package table_test

import (
	"context"
	"os"

	"github.com/oakwood-commons/ctable/pkg/table"
)

func ExamplePrint() {
	employees := []table.Record{
		table.NewRecord("first name", "John", "last name", "Doe", "active", true),
		table.NewRecord("first name", "Anna", "last name", "Smith", "active", false),
		table.NewRecord("first name", "Peter", "last name", "Jones", "active", true),
	}
	_ = table.Print(employees, "llr", nil, nil, func(v any) any {
		if v == true {
			return "Yes"
		}
		return "No"
	})
	// Output:
	//    first name last name active
	//    ---------- --------- ------
	//    John       Doe          Yes
	//    Anna       Smith         No
	//    Peter      Jones        Yes
}

func ExampleFormatter_Render() {
	f := table.New(
		table.WithWriter(os.Stdout),
		table.WithSettings(table.Settings{Indent: 0, RowSpace: 2}),
	)
	_ = f.Render(context.Background(), []table.Record{
		table.NewRecord("service", "api", "replicas", 3),
		table.NewRecord("service", "worker", "replicas", 12),
	}, "cr", nil)
	// Output:
	// service  replicas
	// -------  --------
	//   api           3
	//  worker        12
}
