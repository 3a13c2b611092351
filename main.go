/* main.go
 * The "main" method for running the bot. For details about the bot see `readme.md`
 * Usage: go run main.go -guild="<guild id>" -data="<data dir>"
 * Authors: Zachary Bower
 */

package main

import (
	"flag"
	"log"
	"os"

	"tabletop-bot/bot"
	api "tabletop-bot/tournament/api"
	"tabletop-bot/tournament/store"
	"tabletop-bot/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	// Flags
	guildPtr := flag.String("guild", "", "Discord guild (server) id the bot serves")
	dataPtr := flag.String("data", "data", "Data directory for tournament persistence")
	storePtr := flag.String("store", "file", "Persistence backend: file or mongo")
	addrPtr := flag.String("addr", "", "Optional address for the standings HTTP endpoint, e.g. :8080")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	useTestBot, err := parseBoolFlag(*testPtr)
	if err != nil {
		log.Fatal("Invalid \"test\" flag. Should be true or false")
	}
	var discordToken string
	if useTestBot {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else {
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	}

	// Select the persistence backend
	var st store.Interface
	switch *storePtr {
	case "file":
		st, err = store.NewFileStore(*dataPtr)
	case "mongo":
		st, err = store.NewMongoStore("tournaments", os.Getenv("MONGO_PROD_URI"))
	default:
		log.Fatalf("Invalid \"store\" flag %q. Should be file or mongo", *storePtr)
	}
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}

	// Roster and notifier are wired by the bot once its session is open
	tournamentAPI, err := api.NewAPI(st, nil, nil)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}

	// Reload persisted tournaments before accepting any triggers
	loaded, err := tournamentAPI.LoadActive()
	if err != nil {
		log.Fatalf("failed to reload persisted tournaments: %v", err)
	}
	log.Printf("restored %d active tournament(s)", loaded)

	// Optional read-only standings endpoint
	if *addrPtr != "" {
		go func() {
			if err := web.Start(web.Config{Addr: *addrPtr, API: tournamentAPI}); err != nil {
				log.Printf("standings server stopped: %v", err)
			}
		}()
	}

	// Init bot and run
	b, err := bot.NewBot(discordToken, *guildPtr, tournamentAPI)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	if err := b.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}
