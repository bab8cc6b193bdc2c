package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/phillyfan-api/internal/domain"
)

// Publishes game settlement events to Kafka. One event per -game flag, or a
// batch read from a JSON file of settlements via -file.
func main() {
	brokers := flag.String("brokers", "localhost:9094", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "game-settlements", "Kafka topic")
	gameID := flag.String("game", "", "Game ID to settle")
	winner := flag.String("winner", "", "Winning team name or abbreviation")
	homeScore := flag.Int("home", 0, "Final home score")
	awayScore := flag.Int("away", 0, "Final away score")
	file := flag.String("file", "", "JSON file containing an array of settlements")
	flag.Parse()

	settlements, err := collectSettlements(*gameID, *winner, *homeScore, *awayScore, *file)
	if err != nil {
		log.Fatalf("invalid input: %v", err)
	}
	if len(settlements) == 0 {
		log.Fatal("nothing to publish: pass -game and -winner, or -file")
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(strings.Split(*brokers, ","), config)
	if err != nil {
		log.Fatalf("failed to create producer: %v", err)
	}
	defer producer.Close()

	for _, settlement := range settlements {
		data, err := json.Marshal(settlement)
		if err != nil {
			log.Fatalf("failed to marshal settlement: %v", err)
		}

		partition, offset, err := producer.SendMessage(&sarama.ProducerMessage{
			Topic: *topic,
			Key:   sarama.StringEncoder(settlement.GameID),
			Value: sarama.ByteEncoder(data),
		})
		if err != nil {
			log.Fatalf("failed to publish settlement for game %s: %v", settlement.GameID, err)
		}
		fmt.Printf("published game=%s winner=%s partition=%d offset=%d\n",
			settlement.GameID, settlement.Winner, partition, offset)
	}
}

func collectSettlements(gameID, winner string, homeScore, awayScore int, file string) ([]domain.GameSettlement, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var settlements []domain.GameSettlement
		if err := json.Unmarshal(data, &settlements); err != nil {
			return nil, err
		}
		for i := range settlements {
			if settlements[i].Timestamp.IsZero() {
				settlements[i].Timestamp = time.Now().UTC()
			}
		}
		return settlements, nil
	}

	if gameID == "" || winner == "" {
		return nil, nil
	}
	return []domain.GameSettlement{{
		GameID:    gameID,
		Winner:    winner,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Timestamp: time.Now().UTC(),
	}}, nil
}
