package cli

import (
	"fmt"
	"io"
	"os"
)

// readInput reads fileName, or stdin when fileName is "-" or empty.
func readInput(fileName string) ([]byte, error) {
	if fileName == "" || fileName == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %v", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %v", fileName, err)
	}
	return data, nil
}
