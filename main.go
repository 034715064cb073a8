package main

import (
	"os"

	"github.com/azure-analyst/backend/cmd"
)

func main() {
	// 에러 메시지는 cobra가 출력
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
