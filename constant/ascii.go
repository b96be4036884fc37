package constant

// AsciiArtLogo is the banner printed above the root command help.
const AsciiArtLogo = `                             _                 _
  _ __ ___   ___  __ _  __ _| | ___   __ _  __| | ___ _ __
 | '_ ` + "`" + ` _ \ / _ \/ _` + "`" + ` |/ _` + "`" + ` | |/ _ \ / _` + "`" + ` |/ _` + "`" + ` |/ _ \ '__|
 | | | | | |  __/ (_| | (_| | | (_) | (_| | (_| |  __/ |
 |_| |_| |_|\___|\__, |\__,_|_|\___/ \__,_|\__,_|\___|_|
                 |___/`
