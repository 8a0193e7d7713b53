package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/sales-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   _____       __             ____            __    
  / ___/____ _/ /__  _____   / __ \____ ______/ /_   
  \__ \/ __ '/ / _ \/ ___/  / / / / __ '/ ___/ __ \  
 ___/ / /_/ / /  __(__  )  / /_/ / /_/ (__  ) / / /  
/____/\__,_/_/\___/____/  /_____/\__,_/____/_/ /_/   
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	if versionStr != "" && versionStr != version.Version {
		formattedVersion = versionStr
	}
	fmt.Println(blue(fmt.Sprintf("Sales Analytics Dashboard CLI (v%s)", formattedVersion)))
}
