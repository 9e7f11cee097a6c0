package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/annel0/voxel-game/internal/storage"
)

// Утилита резервного копирования сохранений мира.
//
//	world-backup -save saves -out backups/world.tar.gz
//	world-backup -verify backups/world.tar.gz
func main() {
	saveDir := flag.String("save", "saves", "директория сохранения мира")
	out := flag.String("out", "", "путь архива (по умолчанию <save>-<дата>.tar.gz)")
	verify := flag.String("verify", "", "проверить архив вместо создания")
	flag.Parse()

	if *verify != "" {
		if err := storage.VerifyBackup(*verify); err != nil {
			fmt.Fprintf(os.Stderr, "архив повреждён: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("архив цел")
		return
	}

	outPath := *out
	if outPath == "" {
		outPath = fmt.Sprintf("%s-%s.tar.gz", *saveDir, time.Now().Format("2006-01-02_15-04-05"))
	}

	if err := storage.CreateBackup(*saveDir, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка резервного копирования: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("сохранение упаковано в %s\n", outPath)
}
