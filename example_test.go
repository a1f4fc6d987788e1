package recsort_test

import (
	"context"
	"fmt"

	"github.com/lanrat/recsort"
)

func ExampleSortByKey() {
	records := []recsort.Record{
		{"name": "Liam", "score": 82},
		{"name": "Olivia", "score": 91},
		{"name": "Noah", "score": 75},
	}

	sorted, err := recsort.SortByKey(records, "score")
	if err != nil {
		panic(err)
	}
	for _, rec := range sorted {
		fmt.Printf("%v %v\n", rec["name"], rec["score"])
	}
	// Output:
	// Noah 75
	// Liam 82
	// Olivia 91
}

func ExampleNew() {
	inputChan := make(chan recsort.Record)
	go func() {
		for _, id := range []int{4, 2, 5, 1, 3} {
			inputChan <- recsort.Record{"id": id}
		}
		close(inputChan)
	}()

	sorter, outChan, errChan := recsort.New(inputChan, "id", nil)
	sorter.Sort(context.Background())

	for rec := range outChan {
		fmt.Println(rec["id"])
	}
	if err := <-errChan; err != nil {
		panic(err)
	}
	// Output:
	// 1
	// 2
	// 3
	// 4
	// 5
}

func ExampleUniqByKey() {
	inputChan := make(chan recsort.Record, 4)
	inputChan <- recsort.Record{"id": 1, "source": "a"}
	inputChan <- recsort.Record{"id": 1, "source": "b"}
	inputChan <- recsort.Record{"id": 2, "source": "a"}
	inputChan <- recsort.Record{"id": 3, "source": "a"}
	close(inputChan)

	for rec := range recsort.UniqByKey(inputChan, "id") {
		fmt.Println(rec["id"])
	}
	// Output:
	// 1
	// 2
	// 3
}
