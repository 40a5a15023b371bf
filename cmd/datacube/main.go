package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/unhas-eo/datacube-notebooks/internal/delivery"
	"github.com/unhas-eo/datacube-notebooks/internal/notification"
	"github.com/unhas-eo/datacube-notebooks/internal/properties"
)

func printBanner() {
	figure1 := figure.NewFigure("Datacube", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	fmt.Println()
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print("\033[34m" + prompt + "\033[0m")
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func readDateRange(reader *bufio.Reader) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", readLine(reader, "Enter the start date (YYYY-MM-DD): "))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", readLine(reader, "Enter the end date (YYYY-MM-DD): "))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return start, end, nil
}

// panicReport formats a recovered panic for the error notification. The
// stack trace carries the panic site.
func panicReport(r interface{}, stack []byte) string {
	return fmt.Sprintf("Datacube CLI panic:\n\n%v\n\nStack trace:\n%s", r, stack)
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mExiting...\033[0m\n")

			if err := notification.SendDiscordErrorNotification(panicReport(r, debug.Stack())); err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()
	printBanner()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("\033[34m===================\033[0m")
		fmt.Println("\033[34m1. Run water-quality analysis for a lake\033[0m")
		fmt.Println("\033[34m2. Run cloud assessment for a lake\033[0m")
		fmt.Println("\033[34m3. List available sites\033[0m")
		fmt.Println("\033[34m4. Exit\033[0m")
		fmt.Println("\033[34mEnter your choice:\033[0m")

		var choice int
		_, err := fmt.Scan(&choice)
		if err != nil {
			fmt.Printf("\n\033[31mInvalid input. Please enter a number.\033[0m\n")
			fmt.Scanln()
			continue
		}
		reader.ReadString('\n')

		switch choice {
		case 1:
			fmt.Println("\033[33m\nWarning:\033[0m")
			fmt.Println("\033[33m- A '.geojson' file with the site name should be present in data/boundaries.\033[0m")
			fmt.Println("\033[33m- The '.geojson' file should contain the lake in its features identified by 'name'.\n\033[0m")

			site := readLine(reader, "Enter the site name: ")
			lake := readLine(reader, "Enter the lake name: ")
			start, end, err := readDateRange(reader)
			if err != nil {
				fmt.Printf("\n\033[31mInvalid date range: %s\033[0m\n", err.Error())
				continue
			}

			result, err := delivery.RunWaterQuality(delivery.WaterQualityConfig{
				Site:              site,
				Lake:              lake,
				StartDate:         start,
				EndDate:           end,
				GoodDataThreshold: properties.GoodDataThreshold(),
			})
			if err != nil {
				fmt.Printf("\n\033[31mError running water-quality analysis: %s\033[0m\n", err.Error())
				notification.SendDiscordErrorNotification(fmt.Sprintf("Datacube CLI\n\nError running water-quality analysis: %s", err.Error()))
				continue
			}

			fmt.Printf("\n\033[32mSuccessful analysis over %d of %d acquisitions.\n Series: %s\n Report: %s\033[0m\n",
				result.Retained, result.Total, result.SeriesCSV, result.ReportCSV)
			notification.SendDiscordSuccessNotification(fmt.Sprintf("Datacube CLI\n\nWater-quality analysis finished for %s/%s\nSeries: %s", site, lake, result.SeriesCSV))
		case 2:
			site := readLine(reader, "Enter the site name: ")
			lake := readLine(reader, "Enter the lake name: ")
			start, end, err := readDateRange(reader)
			if err != nil {
				fmt.Printf("\n\033[31mInvalid date range: %s\033[0m\n", err.Error())
				continue
			}

			result, err := delivery.RunCloudAssessment(delivery.CloudAssessmentConfig{
				Site:      site,
				Lake:      lake,
				StartDate: start,
				EndDate:   end,
			})
			if err != nil {
				fmt.Printf("\n\033[31mError running cloud assessment: %s\033[0m\n", err.Error())
				notification.SendDiscordErrorNotification(fmt.Sprintf("Datacube CLI\n\nError running cloud assessment: %s", err.Error()))
				continue
			}

			fmt.Printf("\n\033[32mCloud assessment finished over %d acquisitions.\n Report: %s\n Clear-fraction map: %s\033[0m\n",
				len(result.Times), result.ReportCSV, result.FractionImage)
		case 3:
			files, err := os.ReadDir(properties.RootPath() + "/data/boundaries")
			if err != nil {
				fmt.Printf("\n\033[31mError reading boundaries folder: %s\033[0m\n", err.Error())
				continue
			}
			fmt.Println("\033[33m\nWarning:\033[0m")
			fmt.Println("\033[33mTo add a new site, add its '.geojson' file at 'data/boundaries'.\033[0m")

			fmt.Println("\n\033[32mAvailable sites:\033[0m")
			for _, file := range files {
				if strings.HasSuffix(file.Name(), ".geojson") {
					fmt.Printf("\033[32m- %s\033[0m\n", strings.TrimSuffix(file.Name(), ".geojson"))
				}
			}
		case 4:
			println("Exiting...")
			return
		default:
			println("Invalid choice. Please try again.")
		}
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			fmt.Printf("\033[33mNo .env file found, relying on the environment.\033[0m\n")
		}
	}
	initCLI()
}
