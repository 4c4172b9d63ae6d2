package main

import (
	// Register plugins via side-effects
	_ "confcollect/internal/collectors/file"
	_ "confcollect/internal/collectors/http"
	_ "confcollect/internal/collectors/telegram"
	_ "confcollect/internal/publishers/github"
	_ "confcollect/internal/publishers/stdout"
)

func main() {
	Execute()
}
