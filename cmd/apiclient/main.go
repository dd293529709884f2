package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	serverURL  = flag.String("url", "http://localhost:8080", "Kotoba server base URL")
	sourceLang = flag.String("source", "zh-TW", "Source language code or name (e.g., en, 中文)")
	targetLang = flag.String("target", "en", "Target language code or name (e.g., ja, 日文)")
	textFile   = flag.String("file", "", "Path to text file to translate")
	text       = flag.String("text", "", "Text to translate (if file not provided)")
	listLangs  = flag.Bool("languages", false, "List supported languages and exit")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	client := &http.Client{Timeout: 60 * time.Second}

	if *listLangs {
		listLanguages(client, logger)
		return
	}

	// Read text to translate
	var textToTranslate string
	if *textFile != "" {
		data, err := os.ReadFile(*textFile)
		if err != nil {
			logger.WithError(err).Fatalf("Failed to read file: %s", *textFile)
		}
		textToTranslate = string(data)
	} else if *text != "" {
		textToTranslate = *text
	} else {
		logger.Fatal("Either -file or -text must be provided")
	}

	logger.WithFields(logrus.Fields{
		"server":      *serverURL,
		"source_lang": *sourceLang,
		"target_lang": *targetLang,
		"text_length": len(textToTranslate),
	}).Info("Sending translate request...")

	body, err := json.Marshal(map[string]string{
		"text": textToTranslate,
		"from": *sourceLang,
		"to":   *targetLang,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to encode request")
	}

	startTime := time.Now()
	resp, err := client.Post(*serverURL+"/api/translate", "application/json", bytes.NewReader(body))
	if err != nil {
		logger.WithError(err).Fatal("Request failed")
	}
	defer resp.Body.Close()

	var result struct {
		Success    bool   `json:"success"`
		Original   string `json:"original"`
		Translated string `json:"translated"`
		From       string `json:"from"`
		To         string `json:"to"`
		Engine     string `json:"engine"`
		Tokens     int    `json:"tokens"`
		Error      string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.WithError(err).Fatal("Failed to decode response")
	}

	if !result.Success {
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"error":  result.Error,
		}).Fatal("Translation was not successful")
	}

	duration := time.Since(startTime)

	separator := strings.Repeat("=", 80)
	fmt.Println(separator)
	fmt.Printf("Translation: %s -> %s (engine: %s, tokens: %d, took %s)\n",
		result.From, result.To, result.Engine, result.Tokens, duration.Round(time.Millisecond))
	fmt.Println(separator)
	fmt.Println(result.Translated)
	fmt.Println(separator)
}

func listLanguages(client *http.Client, logger *logrus.Logger) {
	resp, err := client.Get(*serverURL + "/api/translate/languages")
	if err != nil {
		logger.WithError(err).Fatal("Request failed")
	}
	defer resp.Body.Close()

	var result struct {
		Languages []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"languages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.WithError(err).Fatal("Failed to decode response")
	}

	for _, lang := range result.Languages {
		fmt.Printf("%-8s %s\n", lang.Code, lang.Name)
	}
}
