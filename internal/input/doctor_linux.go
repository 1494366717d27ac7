//go:build linux

package input

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/stigoleg/keepawayk/internal/util"
)

// Capabilities describes what the host offers for input injection.
type Capabilities struct {
	DisplayServer      string
	DesktopEnvironment string
	UinputAccess       bool
	UinputProblem      string
	XdotoolAvailable   bool
	YdotoolAvailable   bool
	XrandrAvailable    bool
	Distro             DistroInfo
}

// DistroInfo contains information about the detected Linux distribution.
type DistroInfo struct {
	Name       string
	PkgManager string
}

// DetectCapabilities inspects the session, tools and device permissions.
func DetectCapabilities() Capabilities {
	access, problem := CheckUinputPermissions()
	return Capabilities{
		DisplayServer:      DetectDisplayServer(),
		DesktopEnvironment: DetectDesktopEnvironment(),
		UinputAccess:       access,
		UinputProblem:      problem,
		XdotoolAvailable:   util.HasCommand("xdotool"),
		YdotoolAvailable:   util.HasCommand("ydotool"),
		XrandrAvailable:    util.HasCommand("xrandr"),
		Distro:             DetectDistribution(),
	}
}

// UsableBackends lists the backends that Open would accept on this host.
func (c Capabilities) UsableBackends() []string {
	var out []string
	if c.UinputAccess {
		out = append(out, BackendUinput)
	}
	if c.YdotoolAvailable {
		out = append(out, BackendYdotool)
	}
	if c.XdotoolAvailable && c.DisplayServer == DisplayServerX11 {
		out = append(out, BackendXdotool)
	}
	return append(out, BackendDryRun)
}

// CheckUinputPermissions reports whether /dev/uinput can be opened for
// writing, with remediation text when it cannot.
func CheckUinputPermissions() (bool, string) {
	if _, err := os.Stat(uinputDevicePath); os.IsNotExist(err) {
		return false, "/dev/uinput does not exist. The uinput kernel module may not be loaded. Try: sudo modprobe uinput"
	}

	f, err := os.OpenFile(uinputDevicePath, os.O_WRONLY, 0)
	if err == nil {
		f.Close()
		return true, ""
	}

	if !inInputGroup() {
		return false, "uinput permission denied. Add your user to the 'input' group:\n" +
			"  sudo usermod -aG input $USER\n" +
			"Then log out and log back in.\n\n" +
			"Alternatively, create a udev rule:\n" +
			"  echo 'KERNEL==\"uinput\", MODE=\"0664\", GROUP=\"input\"' | sudo tee /etc/udev/rules.d/99-uinput.rules\n" +
			"  sudo udevadm control --reload-rules && sudo udevadm trigger"
	}
	return false, fmt.Sprintf("uinput permission denied: %v", err)
}

func inInputGroup() bool {
	grp, err := user.LookupGroup("input")
	if err != nil {
		// no input group at all: membership cannot be the fix
		return true
	}
	gid, err := strconv.Atoi(grp.Gid)
	if err != nil {
		return true
	}
	groups, err := os.Getgroups()
	if err != nil {
		return true
	}
	for _, g := range groups {
		if g == gid {
			return true
		}
	}
	return false
}

// DetectDistribution reads /etc/os-release to pick a package manager.
func DetectDistribution() DistroInfo {
	file, err := os.Open("/etc/os-release")
	if err != nil {
		return DistroInfo{Name: "unknown", PkgManager: detectPackageManager()}
	}
	defer file.Close()

	var id, idLike string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "ID="); ok {
			id = strings.Trim(v, "\"")
		}
		if v, ok := strings.CutPrefix(line, "ID_LIKE="); ok {
			idLike = strings.Trim(v, "\"")
		}
	}
	return distroFromRelease(strings.ToLower(id), idLike)
}

func distroFromRelease(id, idLike string) DistroInfo {
	if id == "" {
		id = "unknown"
	}
	var pm string
	switch {
	case id == "debian" || id == "ubuntu" || id == "pop" ||
		strings.Contains(idLike, "debian") || strings.Contains(idLike, "ubuntu"):
		pm = "apt"
	case id == "fedora" || id == "rhel" || id == "centos" ||
		strings.Contains(idLike, "fedora") || strings.Contains(idLike, "rhel"):
		pm = "dnf"
	case id == "arch" || id == "manjaro" || strings.Contains(idLike, "arch"):
		pm = "pacman"
	case strings.HasPrefix(id, "opensuse") || strings.Contains(idLike, "suse"):
		pm = "zypper"
	case id == "alpine":
		pm = "apk"
	default:
		pm = detectPackageManager()
	}
	return DistroInfo{Name: id, PkgManager: pm}
}

func detectPackageManager() string {
	for _, m := range []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"} {
		if util.HasCommand(m) {
			return m
		}
	}
	return "unknown"
}

// InstallCommand returns the package-manager command that installs tool.
func InstallCommand(tool string, distro DistroInfo) string {
	switch distro.PkgManager {
	case "apt":
		return fmt.Sprintf("sudo apt update && sudo apt install %s", tool)
	case "dnf", "yum":
		return fmt.Sprintf("sudo %s install %s", distro.PkgManager, tool)
	case "pacman":
		return fmt.Sprintf("sudo pacman -S %s", tool)
	case "zypper":
		return fmt.Sprintf("sudo zypper install %s", tool)
	case "apk":
		return fmt.Sprintf("sudo apk add %s", tool)
	default:
		return fmt.Sprintf("Install %s using your distribution's package manager", tool)
	}
}

// Report renders the capabilities as human-readable diagnostics.
func (c Capabilities) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Display server:      %s\n", c.DisplayServer)
	fmt.Fprintf(&b, "Desktop environment: %s\n", c.DesktopEnvironment)
	fmt.Fprintf(&b, "Distribution:        %s (%s)\n", c.Distro.Name, c.Distro.PkgManager)
	fmt.Fprintf(&b, "uinput access:       %v\n", c.UinputAccess)
	fmt.Fprintf(&b, "ydotool:             %v\n", c.YdotoolAvailable)
	fmt.Fprintf(&b, "xdotool:             %v\n", c.XdotoolAvailable)
	fmt.Fprintf(&b, "xrandr:              %v\n", c.XrandrAvailable)
	fmt.Fprintf(&b, "Usable backends:     %s\n", strings.Join(c.UsableBackends(), ", "))

	var hints []string
	if !c.UinputAccess && c.UinputProblem != "" {
		hints = append(hints, c.UinputProblem)
	}
	if !c.YdotoolAvailable && c.DisplayServer == DisplayServerWayland {
		hints = append(hints, "ydotool drives Wayland sessions: "+InstallCommand("ydotool", c.Distro))
	}
	if !c.XdotoolAvailable && c.DisplayServer == DisplayServerX11 {
		hints = append(hints, "xdotool drives X11 sessions and reports the pointer position: "+InstallCommand("xdotool", c.Distro))
	}
	if !c.XdotoolAvailable && !c.XrandrAvailable {
		hints = append(hints, fmt.Sprintf("no screen size probe available; %dx%d will be assumed unless input.screen_width/height are set",
			DefaultScreenWidth, DefaultScreenHeight))
	}
	if len(hints) > 0 {
		b.WriteString("\nHints:\n")
		for i, h := range hints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, h)
		}
	}
	return b.String()
}
